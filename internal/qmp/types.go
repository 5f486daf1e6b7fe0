package qmp

// Status represents the VM status
type Status struct {
	Running    bool   `json:"running"`
	Status     string `json:"status"`
	Singlestep bool   `json:"singlestep"`
}

// Screenshot represents a screendump command
type Screenshot struct {
	Filename string `json:"filename"`
}

// InputEventArgs is the argument object of input-send-event
type InputEventArgs struct {
	Device string       `json:"device,omitempty"`
	Events []InputEvent `json:"events"`
}

// InputEvent is one entry of an input-send-event batch
type InputEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// KeyValue identifies a key by QKeyCode
type KeyValue struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// KeyEventData is the payload of a "key" input event
type KeyEventData struct {
	Down bool     `json:"down"`
	Key  KeyValue `json:"key"`
}

// ButtonEventData is the payload of a "btn" input event
type ButtonEventData struct {
	Down   bool   `json:"down"`
	Button string `json:"button"`
}

// MoveEventData is the payload of "abs" and "rel" input events
type MoveEventData struct {
	Axis  string `json:"axis"`
	Value int64  `json:"value"`
}

// KeyEvent builds a key press or release for qcode
func KeyEvent(qcode string, down bool) InputEvent {
	return InputEvent{Type: "key", Data: KeyEventData{Down: down, Key: KeyValue{Type: "qcode", Data: qcode}}}
}

// ButtonEvent builds a mouse button press or release
func ButtonEvent(button string, down bool) InputEvent {
	return InputEvent{Type: "btn", Data: ButtonEventData{Down: down, Button: button}}
}

// AbsEvent builds an absolute pointer axis event. value is in 0..AbsMax.
func AbsEvent(axis string, value int64) InputEvent {
	return InputEvent{Type: "abs", Data: MoveEventData{Axis: axis, Value: value}}
}

// RelEvent builds a relative pointer axis event
func RelEvent(axis string, value int64) InputEvent {
	return InputEvent{Type: "rel", Data: MoveEventData{Axis: axis, Value: value}}
}
