package validation

// Validator accumulates field-level validation failures. The first message
// recorded for a field wins.
type Validator struct {
	errors map[string]string
}

func New() *Validator {
	return &Validator{
		errors: make(map[string]string),
	}
}

// Check records msg under field when cond is false.
func (v *Validator) Check(cond bool, field, msg string) {
	if cond {
		return
	}
	if _, ok := v.errors[field]; !ok {
		v.errors[field] = msg
	}
}

func (v *Validator) Valid() bool {
	return len(v.errors) == 0
}

func (v *Validator) Errors() map[string]string {
	return v.errors
}
