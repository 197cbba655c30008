package action

import (
	"testing"
)

// recordingEffects captures every effect the dispatcher triggers.
type recordingEffects struct {
	menu     *Anchor
	closed   int
	paths    []string
	removing bool
}

func (r *recordingEffects) OpenMenu(a Anchor) { r.menu = &a }

func (r *recordingEffects) Close() { r.closed++ }

func (r *recordingEffects) GoTo(path string) { r.paths = append(r.paths, path) }

func (r *recordingEffects) RequestRemoval() error {
	r.removing = true
	return nil
}

func (r *recordingEffects) untouched() bool {
	return r.menu == nil && r.closed == 0 && len(r.paths) == 0 && !r.removing
}

func TestGateEnabled(t *testing.T) {
	tests := []struct {
		name string
		gate Gate
		want map[Action]bool
	}{
		{
			name: "everything allowed",
			gate: Gate{HasPosition: true},
			want: map[Action]bool{ActionExtraMenu: true, ActionClose: true, ActionReplay: true, ActionCommand: true, ActionEdit: true, ActionRemove: true, ActionShare: true},
		},
		{
			name: "no position",
			gate: Gate{},
			want: map[Action]bool{ActionExtraMenu: false, ActionClose: true, ActionReplay: false, ActionCommand: true, ActionEdit: true, ActionRemove: true, ActionShare: true},
		},
		{
			name: "actions disabled",
			gate: Gate{HasPosition: true, ActionsDisabled: true},
			want: map[Action]bool{ActionExtraMenu: true, ActionClose: true, ActionReplay: false, ActionCommand: false, ActionEdit: false, ActionRemove: false, ActionShare: true},
		},
		{
			name: "device readonly",
			gate: Gate{HasPosition: true, DeviceReadonly: true},
			want: map[Action]bool{ActionReplay: true, ActionCommand: true, ActionEdit: false, ActionRemove: false},
		},
		{
			name: "share disabled by server",
			gate: Gate{HasPosition: true, ShareDisabled: true},
			want: map[Action]bool{ActionShare: false},
		},
		{
			name: "temporary user",
			gate: Gate{HasPosition: true, TemporaryUser: true},
			want: map[Action]bool{ActionShare: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for a, want := range tt.want {
				if got := tt.gate.Enabled(a); got != want {
					t.Errorf("Enabled(%s) = %v, want %v", a, got, want)
				}
			}
		})
	}
}

func TestDispatch_Effects(t *testing.T) {
	tests := []struct {
		action Action
		check  func(*recordingEffects) bool
	}{
		{ActionExtraMenu, func(r *recordingEffects) bool { return r.menu != nil && r.menu.X == 3 && r.menu.Y == 4 }},
		{ActionClose, func(r *recordingEffects) bool { return r.closed == 1 }},
		{ActionReplay, func(r *recordingEffects) bool { return len(r.paths) == 1 && r.paths[0] == "/replay" }},
		{ActionCommand, func(r *recordingEffects) bool { return len(r.paths) == 1 && r.paths[0] == "/settings/device/7/command" }},
		{ActionEdit, func(r *recordingEffects) bool { return len(r.paths) == 1 && r.paths[0] == "/settings/device/7" }},
		{ActionRemove, func(r *recordingEffects) bool { return r.removing }},
		{ActionShare, func(r *recordingEffects) bool { return len(r.paths) == 1 && r.paths[0] == "/settings/device/7/share" }},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			fx := &recordingEffects{}
			d := NewDispatcher(7, Gate{HasPosition: true}, fx)
			if err := d.Dispatch(tt.action, Anchor{X: 3, Y: 4}); err != nil {
				t.Fatalf("dispatch: %v", err)
			}
			if !tt.check(fx) {
				t.Errorf("unexpected effects: %+v", fx)
			}
		})
	}
}

func TestDispatch_DisabledActionsAreInert(t *testing.T) {
	for _, a := range []Action{ActionReplay, ActionCommand, ActionEdit, ActionRemove} {
		fx := &recordingEffects{}
		d := NewDispatcher(7, Gate{HasPosition: true, ActionsDisabled: true}, fx)
		if err := d.Dispatch(a, Anchor{}); err != ErrDisabled {
			t.Errorf("%s: err = %v, want ErrDisabled", a, err)
		}
		if !fx.untouched() {
			t.Errorf("%s: effects triggered while disabled: %+v", a, fx)
		}
	}
}

func TestDispatch_ReadonlyBlocksEditAndRemove(t *testing.T) {
	for _, disabled := range []bool{false, true} {
		for _, a := range []Action{ActionEdit, ActionRemove} {
			fx := &recordingEffects{}
			d := NewDispatcher(7, Gate{HasPosition: true, ActionsDisabled: disabled, DeviceReadonly: true}, fx)
			if err := d.Dispatch(a, Anchor{}); err != ErrDisabled {
				t.Errorf("%s (disableActions=%v): err = %v", a, disabled, err)
			}
			if !fx.untouched() {
				t.Errorf("%s (disableActions=%v): effects triggered", a, disabled)
			}
		}
	}
}

func TestDispatch_UnknownAction(t *testing.T) {
	fx := &recordingEffects{}
	d := NewDispatcher(7, Gate{HasPosition: true}, fx)
	if err := d.Dispatch("launch", Anchor{}); err != ErrUnknownAction {
		t.Fatalf("err = %v", err)
	}
}

func TestParse(t *testing.T) {
	if a, err := Parse("replay"); err != nil || a != ActionReplay {
		t.Errorf("Parse(replay) = %v, %v", a, err)
	}
	if _, err := Parse("nope"); err != ErrUnknownAction {
		t.Errorf("Parse(nope) err = %v", err)
	}
}

func TestStatuses_CardOrder(t *testing.T) {
	d := NewDispatcher(7, Gate{}, &recordingEffects{})
	st := d.Statuses()
	if len(st) != len(All) {
		t.Fatalf("len = %d", len(st))
	}
	if st[0].Action != ActionExtraMenu || st[0].Enabled {
		t.Errorf("first status = %+v", st[0])
	}
	if st[1].TitleKey != "sharedRemoveCard" || !st[1].Enabled {
		t.Errorf("close status = %+v", st[1])
	}
}
