package signal

import "testing"

func TestElement_IsInteractive(t *testing.T) {
	tests := []struct {
		el   Element
		want bool
	}{
		{Element{TagName: "BUTTON"}, true},
		{Element{TagName: "a"}, true},
		{Element{TagName: "SELECT"}, true},
		{Element{TagName: "DIV", HasClickHandler: true}, true},
		{Element{TagName: "SPAN", Role: "button"}, true},
		{Element{TagName: "DIV"}, false},
		{Element{TagName: "IMG", Role: "img"}, false},
	}

	for _, tt := range tests {
		if got := tt.el.IsInteractive(); got != tt.want {
			t.Errorf("%+v.IsInteractive() = %v, expected %v", tt.el, got, tt.want)
		}
	}
}

func TestElement_IsSubmitControl(t *testing.T) {
	if !(Element{TagName: "INPUT", Type: "submit"}).IsSubmitControl() {
		t.Error("input[type=submit] is a submit control")
	}
	if !(Element{TagName: "SPAN", InSubmitButton: true}).IsSubmitControl() {
		t.Error("span inside button[type=submit] is a submit control")
	}
	if (Element{TagName: "BUTTON", Type: "button"}).IsSubmitControl() {
		t.Error("button[type=button] is not a submit control")
	}
}

func TestElement_IsTextInput(t *testing.T) {
	if !(Element{TagName: "INPUT"}).IsTextInput() {
		t.Error("input without type is text")
	}
	if !(Element{TagName: "TEXTAREA"}).IsTextInput() {
		t.Error("textarea is text")
	}
	if (Element{TagName: "INPUT", Type: "checkbox"}).IsTextInput() {
		t.Error("checkbox is not text")
	}
}

func TestEvent_IsSubmission(t *testing.T) {
	if !(&Event{Kind: KindSubmit}).IsSubmission() {
		t.Error("submit event is a submission")
	}
	if !(&Event{Kind: KindClick, Target: Element{Type: "submit"}}).IsSubmission() {
		t.Error("click on submit control is a submission")
	}
	if (&Event{Kind: KindFocus, Target: Element{Type: "submit"}}).IsSubmission() {
		t.Error("focus on submit control is not a submission")
	}
}
