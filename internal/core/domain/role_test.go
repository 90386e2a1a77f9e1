package domain

import (
	"errors"
	"testing"
)

func TestParseRole_Canonical(t *testing.T) {
	for _, role := range AllRoles() {
		got, err := ParseRole(string(role))
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", role, err)
		}
		if got != role {
			t.Fatalf("ParseRole(%q) = %q", role, got)
		}
	}
}

func TestParseRole_NormalizesCaseAndSpace(t *testing.T) {
	got, err := ParseRole("  owner ")
	if err != nil {
		t.Fatalf("ParseRole: %v", err)
	}
	if got != RoleOwner {
		t.Fatalf("expected OWNER, got %q", got)
	}
}

func TestParseRole_LegacyAliases(t *testing.T) {
	cases := map[string]Role{
		"PROPIETARIO":   RoleOwner,
		"EMPLEADO":      RoleEmployee,
		"VETERINARIO":   RoleVeterinarian,
		"ADMINISTRADOR": RoleAdministrator,
		"admin":         RoleAdministrator,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRole_Unknown(t *testing.T) {
	for _, in := range []string{"", "SUPERUSER", "owner2"} {
		if _, err := ParseRole(in); !errors.Is(err, ErrUnknownRole) {
			t.Fatalf("ParseRole(%q): expected ErrUnknownRole, got %v", in, err)
		}
	}
}

func TestRole_Valid(t *testing.T) {
	if !RoleVeterinarian.Valid() {
		t.Fatal("VETERINARIAN should be valid")
	}
	if Role("ADMINISTRADOR").Valid() {
		t.Fatal("aliases are not canonical roles")
	}
	if Role("").Valid() {
		t.Fatal("empty role should be invalid")
	}
}

func TestAppointmentTransitions(t *testing.T) {
	if !AppointmentPending.CanTransitionTo(AppointmentAccepted) {
		t.Fatal("pending should accept")
	}
	if !AppointmentAccepted.CanTransitionTo(AppointmentCompleted) {
		t.Fatal("accepted should complete")
	}
	if AppointmentCompleted.CanTransitionTo(AppointmentCancelled) {
		t.Fatal("completed is final")
	}
	if AppointmentCancelled.CanTransitionTo(AppointmentAccepted) {
		t.Fatal("cancelled is final")
	}
}
