package validation

import (
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
)

// Result is the outcome of a full sweep over every tab.
type Result struct {
	Status      enums.FormStatus              `json:"status"`
	InvalidTabs []enums.FormTab               `json:"invalid_tabs"`
	Errors      map[enums.FormTab]FieldErrors `json:"errors"`
}

// Submittable reports whether every tab passed.
func (r Result) Submittable() bool {
	return r.Status == enums.FormStatusSubmittable
}

// ValidateAll recomputes every tab predicate. It is only run on submit.
func ValidateAll(d Draft) Result {
	res := Result{
		Status:      enums.FormStatusSubmittable,
		InvalidTabs: []enums.FormTab{},
		Errors:      map[enums.FormTab]FieldErrors{},
	}
	for _, tab := range enums.FormTabs {
		errs := ValidateTab(tab, d)
		if len(errs) == 0 {
			continue
		}
		res.InvalidTabs = append(res.InvalidTabs, tab)
		res.Errors[tab] = errs
	}
	if len(res.InvalidTabs) > 0 {
		res.Status = enums.FormStatusBlocked
	}
	return res
}

// FormState tracks where the user is and which tabs were flagged at the last submit.
type FormState struct {
	Status      enums.FormStatus              `json:"status"`
	ActiveTab   enums.FormTab                 `json:"active_tab"`
	InvalidTabs []enums.FormTab               `json:"invalid_tabs"`
	Errors      map[enums.FormTab]FieldErrors `json:"errors"`
}

// NewFormState starts an editing session on the basic tab.
func NewFormState() FormState {
	return FormState{
		Status:      enums.FormStatusEditing,
		ActiveTab:   enums.FormTabBasic,
		InvalidTabs: []enums.FormTab{},
		Errors:      map[enums.FormTab]FieldErrors{},
	}
}

// Submit runs the full sweep and records the outcome. ActiveTab is never changed.
func (f FormState) Submit(d Draft) (FormState, Result) {
	res := ValidateAll(d)
	f.Status = res.Status
	f.InvalidTabs = append([]enums.FormTab{}, res.InvalidTabs...)
	f.Errors = cloneErrors(res.Errors)
	return f, res
}

// ValidateField optimistically clears the standing error for exactly one field.
// Predicates are not rerun; the tab marker drops once its last error is cleared.
func (f FormState) ValidateField(tab enums.FormTab, field string) FormState {
	errs, ok := f.Errors[tab]
	if !ok {
		return f
	}
	if _, ok := errs[field]; !ok {
		return f
	}

	f.Errors = cloneErrors(f.Errors)
	delete(f.Errors[tab], field)
	if len(f.Errors[tab]) == 0 {
		delete(f.Errors, tab)
		f.InvalidTabs = withoutTab(f.InvalidTabs, tab)
	}
	return f
}

// SelectTab moves the user to tab without touching validation markers.
func (f FormState) SelectTab(tab enums.FormTab) FormState {
	if tab.IsValid() {
		f.ActiveTab = tab
	}
	return f
}

// Edited returns to editing after a successful submit was followed by more changes.
func (f FormState) Edited() FormState {
	if f.Status == enums.FormStatusSubmittable {
		f.Status = enums.FormStatusEditing
	}
	return f
}

func cloneErrors(in map[enums.FormTab]FieldErrors) map[enums.FormTab]FieldErrors {
	out := make(map[enums.FormTab]FieldErrors, len(in))
	for tab, errs := range in {
		copied := make(FieldErrors, len(errs))
		for k, v := range errs {
			copied[k] = v
		}
		out[tab] = copied
	}
	return out
}

func withoutTab(tabs []enums.FormTab, tab enums.FormTab) []enums.FormTab {
	out := make([]enums.FormTab, 0, len(tabs))
	for _, t := range tabs {
		if t != tab {
			out = append(out, t)
		}
	}
	return out
}
