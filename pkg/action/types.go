package action

import (
	"errors"
	"fmt"
)

// Type is the 16-bit tag that selects a record variant in scene data.
type Type uint16

const (
	TypeSceneChange                   Type = 10
	TypeHotMultiframeSceneChange      Type = 11
	TypeHot1FrSceneChange             Type = 12
	TypeHotMultiframeMultisceneChange Type = 13
	TypeStartFrameNextScene           Type = 16
	TypeStartPlayerScrolling          Type = 20
	TypeStopPlayerScrolling           Type = 21
	TypeMapCall                       Type = 40
	TypeMapCallHot1Fr                 Type = 41
	TypeMapCallHotMultiframe          Type = 42
	TypeMapLocationAccess             Type = 43
	TypeMapSound                      Type = 46
	TypeMapAviOverride                Type = 47
	TypeMapAviOverrideOff             Type = 48
	TypeTextBoxWrite                  Type = 60
	TypeTextBoxClear                  Type = 61
	TypeBumpPlayerClock               Type = 100
	TypeSaveContinueGame              Type = 101
	TypeTurnOffMainRendering          Type = 102
	TypeTurnOnMainRendering           Type = 103
	TypeResetAndStartTimer            Type = 104
	TypeStopTimer                     Type = 105
	TypeEventFlagsMultiHS             Type = 106
	TypeEventFlags                    Type = 107
	TypeLoseGame                      Type = 109
	TypePushScene                     Type = 110
	TypePopScene                      Type = 111
	TypeWinGame                       Type = 112
	TypeDifficultyLevel               Type = 113
	TypeAddInventoryNoHS              Type = 120
	TypeRemoveInventoryNoHS           Type = 121
	TypeShowInventoryItem             Type = 122
	TypePlayDigiSoundAndDie           Type = 150
	TypePlayDigiSoundAndDieAlt        Type = 151
	TypePlaySoundPanFrameAnchorAndDie Type = 152
	TypePlaySoundMultiHS              Type = 153
	TypeHintSystem                    Type = 154
)

var typeNames = map[Type]string{
	TypeSceneChange:                   "scene change",
	TypeHotMultiframeSceneChange:      "hot multiframe scene change",
	TypeHot1FrSceneChange:             "hot single frame scene change",
	TypeHotMultiframeMultisceneChange: "hot multiframe multiscene change",
	TypeStartFrameNextScene:           "start frame next scene",
	TypeStartPlayerScrolling:          "start player scrolling",
	TypeStopPlayerScrolling:           "stop player scrolling",
	TypeMapCall:                       "map call",
	TypeMapCallHot1Fr:                 "map call hot single frame",
	TypeMapCallHotMultiframe:          "map call hot multiframe",
	TypeMapLocationAccess:             "map location access",
	TypeMapSound:                      "map sound",
	TypeMapAviOverride:                "map avi override",
	TypeMapAviOverrideOff:             "map avi override off",
	TypeTextBoxWrite:                  "textbox write",
	TypeTextBoxClear:                  "textbox clear",
	TypeBumpPlayerClock:               "bump player clock",
	TypeSaveContinueGame:              "save continue game",
	TypeTurnOffMainRendering:          "turn off main rendering",
	TypeTurnOnMainRendering:           "turn on main rendering",
	TypeResetAndStartTimer:            "reset and start timer",
	TypeStopTimer:                     "stop timer",
	TypeEventFlagsMultiHS:             "event flags multi hotspot",
	TypeEventFlags:                    "event flags",
	TypeLoseGame:                      "lose game",
	TypePushScene:                     "push scene",
	TypePopScene:                      "pop scene",
	TypeWinGame:                       "win game",
	TypeDifficultyLevel:               "difficulty level",
	TypeAddInventoryNoHS:              "add inventory",
	TypeRemoveInventoryNoHS:           "remove inventory",
	TypeShowInventoryItem:             "show inventory item",
	TypePlayDigiSoundAndDie:           "play digi sound and die",
	TypePlayDigiSoundAndDieAlt:        "play digi sound and die",
	TypePlaySoundPanFrameAnchorAndDie: "play sound pan frame anchor and die",
	TypePlaySoundMultiHS:              "play sound multi hotspot",
	TypeHintSystem:                    "hint system",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("record type %d", uint16(t))
}

// ErrUnknownRecordType matches any UnknownRecordTypeError.
var ErrUnknownRecordType = errors.New("unknown record type")

// UnknownRecordTypeError reports a tag with no registered variant.
type UnknownRecordTypeError struct {
	Tag Type
}

func (e *UnknownRecordTypeError) Error() string {
	return fmt.Sprintf("unknown record type %d", uint16(e.Tag))
}

func (e *UnknownRecordTypeError) Is(target error) bool {
	return target == ErrUnknownRecordType
}

// factories maps each tag to a constructor for its zero-valued record.
var factories = map[Type]func() Record{
	TypeSceneChange:                   func() Record { return &SceneChangeRecord{} },
	TypeHotMultiframeSceneChange:      func() Record { return &HotMultiframeSceneChange{} },
	TypeHot1FrSceneChange:             func() Record { return &Hot1FrSceneChange{} },
	TypeHotMultiframeMultisceneChange: func() Record { return &HotMultiframeMultisceneChange{} },
	TypeStartFrameNextScene:           func() Record { return newOpaque(4) },
	TypeStartPlayerScrolling:          func() Record { return newOpaque(1) },
	TypeStopPlayerScrolling:           func() Record { return newOpaque(1) },
	TypeMapCall:                       func() Record { return &MapCall{} },
	TypeMapCallHot1Fr:                 func() Record { return &MapCallHot1Fr{} },
	TypeMapCallHotMultiframe:          func() Record { return &MapCallHotMultiframe{} },
	TypeMapLocationAccess:             func() Record { return newOpaque(4) },
	TypeMapSound:                      func() Record { return newOpaque(0x10) },
	TypeMapAviOverride:                func() Record { return newOpaque(2) },
	TypeMapAviOverrideOff:             func() Record { return newOpaque(1) },
	TypeTextBoxWrite:                  func() Record { return &TextBoxWrite{} },
	TypeTextBoxClear:                  func() Record { return &TextBoxClear{} },
	TypeBumpPlayerClock:               func() Record { return newOpaque(5) },
	TypeSaveContinueGame:              func() Record { return newOpaque(1) },
	TypeTurnOffMainRendering:          func() Record { return &MainRendering{} },
	TypeTurnOnMainRendering:           func() Record { return &MainRendering{enable: true} },
	TypeResetAndStartTimer:            func() Record { return &ResetAndStartTimer{} },
	TypeStopTimer:                     func() Record { return &StopTimer{} },
	TypeEventFlagsMultiHS:             func() Record { return &EventFlagsMultiHS{} },
	TypeEventFlags:                    func() Record { return &EventFlags{} },
	TypeLoseGame:                      func() Record { return &LoseGame{} },
	TypePushScene:                     func() Record { return &PushScene{} },
	TypePopScene:                      func() Record { return &PopScene{} },
	TypeWinGame:                       func() Record { return &WinGame{} },
	TypeDifficultyLevel:               func() Record { return &DifficultyLevel{} },
	TypeAddInventoryNoHS:              func() Record { return &AddInventoryNoHS{} },
	TypeRemoveInventoryNoHS:           func() Record { return &RemoveInventoryNoHS{} },
	TypeShowInventoryItem:             func() Record { return &ShowInventoryItem{} },
	TypePlayDigiSoundAndDie:           func() Record { return newPlayDigiSoundAndDie() },
	TypePlayDigiSoundAndDieAlt:        func() Record { return newPlayDigiSoundAndDie() },
	TypePlaySoundPanFrameAnchorAndDie: func() Record { return newOpaque(0x20) },
	TypePlaySoundMultiHS:              func() Record { return newPlaySoundMultiHS() },
	TypeHintSystem:                    func() Record { return newHintSystem() },
}

// New returns a zero-valued record for tag, ready for ReadData or Sync.
func New(tag Type) (Record, error) {
	f, ok := factories[tag]
	if !ok {
		return nil, &UnknownRecordTypeError{Tag: tag}
	}
	rec := f()
	rec.base().tag = tag
	return rec, nil
}
