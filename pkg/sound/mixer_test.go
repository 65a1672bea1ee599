package sound

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/scene-engine/pkg/action"
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

func TestMixer_PlaysForLoops(t *testing.T) {
	m := NewMixer(2, nil)
	s := action.Sound{Name: "MSND", Channel: 1, Loops: 2}
	m.LoadSound(s)
	m.PlaySound(s)

	for i := 0; i < 4; i++ {
		require.True(t, m.IsSoundPlaying(s), "frame %d", i)
		m.Advance()
	}
	assert.False(t, m.IsSoundPlaying(s))
}

func TestMixer_ZeroLoopsRepeat(t *testing.T) {
	m := NewMixer(1, nil)
	s := action.Sound{Name: "AMB", Channel: 2}
	m.LoadSound(s)
	m.PlaySound(s)
	for i := 0; i < 100; i++ {
		m.Advance()
	}
	assert.True(t, m.IsSoundPlaying(s))

	m.StopSound(s)
	assert.False(t, m.IsSoundPlaying(s))
}

func TestMixer_StopAndUnloadSceneSounds(t *testing.T) {
	m := NewMixer(1, nil)
	pickup := action.Sound{Name: "PICKUP", Channel: 24, Loops: 1}
	scene := action.Sound{Name: "WIND", Channel: 3}
	m.LoadSystemSound(pickup)
	m.LoadSound(scene)
	m.PlaySound(scene)

	m.StopAndUnloadSceneSounds()

	voices := m.Voices()
	require.Len(t, voices, 1)
	assert.Equal(t, "PICKUP", voices[0].Sound.Name)

	m.PlayChannel(24)
	assert.True(t, m.IsSoundPlaying(pickup))
}

func TestMixer_PlayChannelUnloaded(t *testing.T) {
	m := NewMixer(1, nil)
	m.PlayChannel(9)
	assert.Empty(t, m.Voices())
}

func TestMixer_SceneSoundOnSystemChannel(t *testing.T) {
	m := NewMixer(1, nil)
	pickup := action.Sound{Name: "PICKUP", Channel: 24, Loops: 1}
	m.LoadSystemSound(pickup)
	m.LoadSound(action.Sound{Name: "DOOR", Channel: 24, Loops: 1})

	m.StopAndUnloadSceneSounds()

	voices := m.Voices()
	require.Len(t, voices, 1)
	assert.Equal(t, "PICKUP", voices[0].Sound.Name)
	assert.True(t, voices[0].System)

	m.PlayChannel(24)
	assert.True(t, m.IsSoundPlaying(pickup))
}

func TestMixer_RestoreSceneVoices(t *testing.T) {
	src := NewMixer(2, nil)
	src.LoadSystemSound(action.Sound{Name: "PICKUP", Channel: 24, Loops: 1})
	digi := action.Sound{Name: "MSND", Channel: 3, Loops: 3, Volume: 80, Variant: action.SoundDIGI}
	amb := action.Sound{Name: "AMB", Channel: 5}
	for _, s := range []action.Sound{digi, amb} {
		src.LoadSound(s)
		src.PlaySound(s)
	}
	src.Advance()
	src.Advance()

	var buf bytes.Buffer
	saved := src.SceneVoices()
	require.Len(t, saved, 2)
	require.NoError(t, SyncVoices(stream.NewSaver(&buf), &saved))

	var loaded []Voice
	require.NoError(t, SyncVoices(stream.NewLoader(bytes.NewReader(buf.Bytes())), &loaded))

	dst := NewMixer(2, nil)
	dst.LoadSystemSound(action.Sound{Name: "PICKUP", Channel: 24, Loops: 1})
	dst.LoadSound(action.Sound{Name: "OLD", Channel: 7})
	dst.RestoreSceneVoices(loaded)

	assert.Equal(t, src.Voices(), dst.Voices())
	for i := 0; i < 4; i++ {
		assert.Equal(t, src.IsSoundPlaying(digi), dst.IsSoundPlaying(digi), "frame %d", i)
		src.Advance()
		dst.Advance()
	}
	assert.False(t, dst.IsSoundPlaying(digi))
	assert.True(t, dst.IsSoundPlaying(amb))
}

func TestSyncVoices_Truncated(t *testing.T) {
	var buf bytes.Buffer
	voices := []Voice{{Sound: action.Sound{Name: "MSND", Channel: 3}, Playing: true, Remaining: 4}}
	require.NoError(t, SyncVoices(stream.NewSaver(&buf), &voices))

	loaded := []Voice{{Sound: action.Sound{Name: "KEEP"}}}
	data := buf.Bytes()[:buf.Len()-2]
	err := SyncVoices(stream.NewLoader(bytes.NewReader(data)), &loaded)
	require.Error(t, err)
	assert.Equal(t, "KEEP", loaded[0].Sound.Name)
}
