package formclient

// View renders controller state. The controller calls it while holding its
// lock, so implementations must not call back into the Controller.
type View interface {
	// SetFieldError shows message under field, or clears it when empty.
	SetFieldError(field, message string)
	SetFieldValid(field string, valid bool)
	SetHiddenValue(name, value string)
	SetCounter(c Counter)
	SetSubmitEnabled(enabled bool)
	SetLoading(loading bool)
	FocusField(field string)
	// LockForm disables every input and shows the success indicator.
	LockForm()
	ShowBanner(message string)
	HideBanner()
}

// NopView ignores every update.
type NopView struct{}

func (NopView) SetFieldError(string, string) {}
func (NopView) SetFieldValid(string, bool) {}
func (NopView) SetHiddenValue(string, string) {}
func (NopView) SetCounter(Counter) {}
func (NopView) SetSubmitEnabled(bool) {}
func (NopView) SetLoading(bool) {}
func (NopView) FocusField(string) {}
func (NopView) LockForm() {}
func (NopView) ShowBanner(string) {}
func (NopView) HideBanner() {}
