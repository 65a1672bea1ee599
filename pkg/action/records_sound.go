package action

import (
	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// PlayDigiSoundAndDie plays a sound, waits for it to end, then applies its
// scene change and flag.
type PlayDigiSoundAndDie struct {
	Base
	Sound         Sound
	Change        SceneChange
	FlagOnTrigger EventFlag
}

func newPlayDigiSoundAndDie() *PlayDigiSoundAndDie {
	return &PlayDigiSoundAndDie{Sound: Sound{Variant: SoundDIGI}}
}

func (r *PlayDigiSoundAndDie) ReadData(rd *stream.Reader) {
	r.Sound.ReadData(rd)
	r.Change.ReadData(rd)
	r.FlagOnTrigger.readShortData(rd)
	rd.Skip(2)
}

func (r *PlayDigiSoundAndDie) Sync(s *stream.Serializer) {
	syncData(s, &r.Sound)
	syncData(s, &r.Change)
	syncShortFlag(s, &r.FlagOnTrigger)
}

func (r *PlayDigiSoundAndDie) Execute(ctx *Context, state ExecState) Transition {
	switch state {
	case StateBegin:
		ctx.Audio.LoadSound(r.Sound)
		ctx.Audio.PlaySound(r.Sound)
		return yield(StateRun)
	case StateRun:
		if ctx.Audio.IsSoundPlaying(r.Sound) {
			return yield(StateRun)
		}
		return yield(StateActionTrigger)
	default:
		if !r.Change.IsNone() {
			ctx.State.ChangeScene(r.Change)
		}
		ctx.State.SetEventFlag(r.FlagOnTrigger)
		// The sound has stopped by now, but the handle is still loaded.
		ctx.Audio.StopSound(r.Sound)
		return r.finish()
	}
}

// PlaySoundMultiHS plays a sound and changes scene when a hotspot is clicked.
type PlaySoundMultiHS struct {
	Base
	Sound    Sound
	Change   SceneChange
	Flag     EventFlag
	Hotspots []Hotspot
}

func newPlaySoundMultiHS() *PlaySoundMultiHS {
	return &PlaySoundMultiHS{Sound: Sound{Variant: SoundNormal}}
}

func (r *PlaySoundMultiHS) ReadData(rd *stream.Reader) {
	r.Sound.ReadData(rd)
	r.Change.ReadData(rd)
	r.Flag.readShortData(rd)
	rd.Skip(2)
	r.Hotspots = readHotspots(rd)
}

func (r *PlaySoundMultiHS) Sync(s *stream.Serializer) {
	syncData(s, &r.Sound)
	syncData(s, &r.Change)
	syncShortFlag(s, &r.Flag)
	syncHotspots(s, &r.Hotspots)
}

// Execute claims the first hotspot for the current frame, unlike the
// scene change records which keep the last.
func (r *PlaySoundMultiHS) Execute(ctx *Context, state ExecState) Transition {
	switch state {
	case StateBegin:
		return fallTo(StateRun)
	case StateRun:
		scanFirstMatch(&r.Base, r.Hotspots, ctx.State.SceneInfo().FrameID)
		return yield(StateRun)
	default:
		ctx.Audio.LoadSound(r.Sound)
		ctx.Audio.PlaySound(r.Sound)
		ctx.State.ChangeScene(r.Change)
		ctx.State.SetEventFlag(r.Flag)
		return r.finish()
	}
}

func syncShortFlag(s *stream.Serializer, f *EventFlag) {
	if s.IsLoading() {
		f.readShortData(s.Reader())
		return
	}
	f.writeShortData(s.Writer())
}
