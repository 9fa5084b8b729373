package submit

import "encoding/json"

// Display is what a form shows below its submit button.
type Display struct {
	Error   string
	Message string
	Payload json.RawMessage
}

// Begin resets the display before a submission is sent. Only the create form
// clears its previous result; the other forms keep showing it until a new
// outcome arrives.
func (d *Display) Begin(op Operation) {
	if op == OpCreate {
		d.Error = ""
		d.Payload = nil
	}
}

// Apply folds an outcome into the display. A failure only replaces the error,
// so the last successful result stays visible next to it.
func (d *Display) Apply(o Outcome) {
	if o.Failed() {
		d.Error = o.Error

		return
	}

	switch o.Op {
	case OpCreate:
		d.Payload = o.Payload

	case OpCombine:
		d.Message = o.Message
		d.Error = ""

	case OpEvaluate:
		d.Payload = o.Payload
		d.Message = o.Message
		d.Error = ""
	}
}
