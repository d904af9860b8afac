package till

import "strings"

// MinAdminNo and MaxAdminNo bound the admin slot table.
const (
	MinAdminNo = 1
	MaxAdminNo = 6
)

func normPin(s string) string {
	return strings.TrimSpace(s)
}

// AdminPins maps admin slots 1..6 to their PINs. A slot's PIN is mutable only
// by whoever presents that slot's current PIN: rotation, not reset.
type AdminPins struct {
	Pins map[int]string `json:"pins"`
}

// DefaultAdminPins seeds all six slots.
func DefaultAdminPins() AdminPins {
	return AdminPins{Pins: map[int]string{
		1: "1111", 2: "2222", 3: "3333", 4: "4444", 5: "5555", 6: "6666",
	}}
}

// ValidAdminNo reports whether n is a usable slot number.
func ValidAdminNo(n int) bool {
	return n >= MinAdminNo && n <= MaxAdminNo
}

// Verify checks an attempt against the slot's stored PIN. An empty stored PIN
// fails with NoPinSet; a mismatch fails with NotAuthorized.
func (p *AdminPins) Verify(adminNo int, attempt string) error {
	if !ValidAdminNo(adminNo) {
		return errValidation("admin number must be between 1 and 6")
	}
	expected := normPin(p.Pins[adminNo])
	if expected == "" {
		return errNoPinSet(adminNo)
	}
	if normPin(attempt) != expected {
		return &TillError{Code: ErrCodeNotAuthorized, Message: "invalid PIN", AdminNo: adminNo}
	}
	return nil
}

// Change rotates one slot's PIN. The check is per-slot: slot N cannot be
// unlocked with slot M's PIN.
func (p *AdminPins) Change(adminNo int, currentPin, newPin string) error {
	if err := p.Verify(adminNo, currentPin); err != nil {
		return err
	}
	next := normPin(newPin)
	if next == "" {
		return errValidation("new PIN must not be empty")
	}
	if p.Pins == nil {
		p.Pins = map[int]string{}
	}
	p.Pins[adminNo] = next
	return nil
}

// Gate is the authorization challenge every protected call site depends on,
// decoupled from any particular input mechanism.
type Gate interface {
	// Challenge verifies the (adminNo, pin) pair for the named scope and
	// returns the authorized admin number.
	Challenge(scope string, adminNo int, pin string) (int, error)
}

// PinGate is the AdminPins-backed Gate.
type PinGate struct {
	Pins *AdminPins
}

// Challenge implements Gate. The scope is informational; authorization is the
// per-slot PIN check.
func (g PinGate) Challenge(scope string, adminNo int, pin string) (int, error) {
	if err := g.Pins.Verify(adminNo, pin); err != nil {
		return 0, err
	}
	return adminNo, nil
}

// CheckEditorPin compares an attempt against the flat shared editor secret
// that protects the catalog/settings surface. Not part of the 1..6 table.
func CheckEditorPin(configured, attempt string) error {
	if normPin(configured) == "" {
		return errNoPinSet(0)
	}
	if normPin(attempt) != normPin(configured) {
		return errNotAuthorized("wrong editor PIN")
	}
	return nil
}
