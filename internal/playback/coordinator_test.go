package playback

import (
	"errors"
	"testing"
)

func TestCoordinator_ElementLazySingleCreation(t *testing.T) {
	created := 0
	coord := NewCoordinator(func() (Element, error) {
		created++
		return newFakeElement(true), nil
	})

	if created != 0 {
		t.Fatalf("factory ran at construction, created = %d", created)
	}

	first, err := coord.Element()
	if err != nil {
		t.Fatalf("Element() error: %v", err)
	}
	second, err := coord.Element()
	if err != nil {
		t.Fatalf("Element() error on second call: %v", err)
	}
	if first != second {
		t.Error("Element() returned different instances")
	}
	if created != 1 {
		t.Errorf("factory ran %d times, want 1", created)
	}
}

func TestCoordinator_ElementRetriesAfterFactoryFailure(t *testing.T) {
	calls := 0
	coord := NewCoordinator(func() (Element, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("no audio device")
		}
		return newFakeElement(true), nil
	})

	if _, err := coord.Element(); err == nil {
		t.Fatal("expected error from first Element() call")
	}
	if _, err := coord.Element(); err != nil {
		t.Fatalf("Element() should retry the factory, got %v", err)
	}
}

func TestCoordinator_ActivateEvictsPreviousSource(t *testing.T) {
	coord := NewCoordinator(func() (Element, error) { return newFakeElement(true), nil })

	deactivations := 0
	a := coord.Subscribe("rec1")
	a.OnDeactivated(func() { deactivations++ })
	coord.Activate(a)

	if got := coord.ActiveSource(); got != "rec1" {
		t.Fatalf("ActiveSource() = %q, want rec1", got)
	}

	b := coord.Subscribe("rec2")
	coord.Activate(b)

	if deactivations != 1 {
		t.Errorf("deactivation callbacks = %d, want 1", deactivations)
	}
	if got := coord.ActiveSource(); got != "rec2" {
		t.Errorf("ActiveSource() = %q, want rec2", got)
	}
}

func TestCoordinator_SameSourceReactivationIsSilent(t *testing.T) {
	coord := NewCoordinator(func() (Element, error) { return newFakeElement(true), nil })

	deactivations := 0
	a := coord.Subscribe("rec1")
	a.OnDeactivated(func() { deactivations++ })
	coord.Activate(a)
	coord.Activate(a)

	// A fresh subscription for the same source must not evict either.
	again := coord.Subscribe("rec1")
	coord.Activate(again)

	if deactivations != 0 {
		t.Errorf("deactivation callbacks = %d, want 0", deactivations)
	}
	if got := coord.ActiveSource(); got != "rec1" {
		t.Errorf("ActiveSource() = %q, want rec1", got)
	}
}

func TestCoordinator_ReleaseOnlyClearsOwner(t *testing.T) {
	coord := NewCoordinator(func() (Element, error) { return newFakeElement(true), nil })

	a := coord.Subscribe("rec1")
	coord.Activate(a)
	b := coord.Subscribe("rec2")
	coord.Activate(b)

	// A was superseded; releasing it must not clobber B.
	a.Release()
	if got := coord.ActiveSource(); got != "rec2" {
		t.Errorf("ActiveSource() after stale release = %q, want rec2", got)
	}

	b.Release()
	if got := coord.ActiveSource(); got != "" {
		t.Errorf("ActiveSource() after owner release = %q, want empty", got)
	}
}

func TestCoordinator_ReleasedSubscriptionGetsNoCallback(t *testing.T) {
	coord := NewCoordinator(func() (Element, error) { return newFakeElement(true), nil })

	calls := 0
	a := coord.Subscribe("rec1")
	a.OnDeactivated(func() { calls++ })
	coord.Activate(a)
	a.Release()

	coord.Activate(coord.Subscribe("rec2"))
	if calls != 0 {
		t.Errorf("released subscription received %d callbacks, want 0", calls)
	}
}

func TestCoordinator_ClearActivePausesAndUnloads(t *testing.T) {
	elem := newFakeElement(true)
	coord := NewCoordinator(func() (Element, error) { return elem, nil })
	if _, err := coord.Element(); err != nil {
		t.Fatal(err)
	}
	if err := elem.Load("rec1"); err != nil {
		t.Fatal(err)
	}
	if err := elem.Play(); err != nil {
		t.Fatal(err)
	}
	coord.Activate(coord.Subscribe("rec1"))

	coord.ClearActive()

	if elem.Playing() {
		t.Error("element still playing after ClearActive")
	}
	if got := elem.Source(); got != "" {
		t.Errorf("element source = %q after ClearActive, want empty", got)
	}
	if got := coord.ActiveSource(); got != "" {
		t.Errorf("ActiveSource() = %q after ClearActive, want empty", got)
	}
}

func TestCoordinator_ClearActiveBeforeElementExists(t *testing.T) {
	coord := NewCoordinator(func() (Element, error) { return newFakeElement(true), nil })
	// Must not create the element or panic.
	coord.ClearActive()
	if coord.loaded() != nil {
		t.Error("ClearActive created the element")
	}
}
