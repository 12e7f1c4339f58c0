// Package events declares the fixed set of event kinds posted on the
// engine's eventbus.Bus, as HashKeys hashed from their lowercase names.
package events

import "github.com/badke/saberrender/common/hashkey"

// Kind is a HashKey naming one of the engine's well-known event kinds.
type Kind = hashkey.HashKey

var (
	KeyEvent                     = hashkey.New("keyevent")
	MouseMotionEvent              = hashkey.New("mousemotionevent")
	MouseButtonEvent              = hashkey.New("mousebuttonevent")
	MouseWheelEvent               = hashkey.New("mousewheelevent")
	TextInputEvent                = hashkey.New("textinputevent")
	KeyboardInputCaptureChange    = hashkey.New("keyboardinputcapturechange")
	MouseInputCaptureChange       = hashkey.New("mouseinputcapturechange")
	InputForward                  = hashkey.New("inputforward")
	InputBackward                 = hashkey.New("inputbackward")
	InputLeft                     = hashkey.New("inputleft")
	InputRight                    = hashkey.New("inputright")
	InputUp                       = hashkey.New("inputup")
	InputDown                     = hashkey.New("inputdown")
	InputSprint                   = hashkey.New("inputsprint")
	InputMouseLeft                = hashkey.New("inputmouseleft")
	InputMouseMiddle              = hashkey.New("inputmousemiddle")
	InputMouseRight               = hashkey.New("inputmouseright")
	ToggleFreeLook                = hashkey.New("togglefreelook")
	TogglePerformanceTimers       = hashkey.New("toggleperformancetimers")
	ToggleVSync                   = hashkey.New("togglevsync")
	VSyncModeChanged               = hashkey.New("vsyncmodechanged")
	ToggleUIVisibility             = hashkey.New("toggleuivisibility")
	WindowFocusChanged             = hashkey.New("windowfocuschanged")
	DragAndDropEvent               = hashkey.New("draganddropevent")
	EngineQuit                     = hashkey.New("enginequit")
	FileImportRequest              = hashkey.New("fileimportrequest")
	SceneCreated                   = hashkey.New("scenecreated")
	SceneResetRequest              = hashkey.New("sceneresetrequest")
	ConfigSetValue                  = hashkey.New("configsetvalue")
	ActiveAmbientLightChanged       = hashkey.New("activeambientlightchanged")
)
