// Package overlay is the device status card: it renders one device's latest
// position and routes the card's actions and workflows.
package overlay

import (
	"context"
	"errors"
	"sync"
	"time"

	"fleetcard/internal/i18n"
	"fleetcard/internal/modules/action"
	"fleetcard/internal/modules/attribute"
	"fleetcard/internal/modules/device"
	"fleetcard/internal/modules/format"
	"fleetcard/internal/modules/geofence"
	"fleetcard/internal/modules/links"
	"fleetcard/internal/modules/position"
	"fleetcard/internal/modules/report"
	"fleetcard/internal/modules/session"
	"fleetcard/internal/types"
)

const (
	workflowGeofence = "geofence.create"
	workflowRemoval  = "device.remove"

	CommandCreateGeofence = "createGeofence"
)

// Devices is the shared device cache.
type Devices interface {
	Get(id types.ID) (device.Device, bool)
	Refresh(s device.Snapshot)
}

// Remote is every tracking server call the card's workflows make.
type Remote interface {
	geofence.Remote
	device.Remote
}

type Deps struct {
	Devices        Devices
	Remote         Remote
	Translator     i18n.Translator
	Addresses      format.AddressResolver
	Reporter       report.Reporter
	GeofenceRadius float64
}

// Outbox collects navigation requests until the host drains them.
type Outbox struct {
	mu    sync.Mutex
	paths []string
}

func (o *Outbox) GoTo(path string) {
	o.mu.Lock()
	o.paths = append(o.paths, path)
	o.mu.Unlock()
}

func (o *Outbox) Drain() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.paths
	o.paths = nil
	return out
}

type Overlay struct {
	id      string
	owner   string
	deps    Deps
	session session.State
	nav     *Outbox
	onClose func(id string)

	geofence *geofence.Workflow
	removal  *device.RemovalWorkflow

	mu     sync.Mutex
	props  Props
	menu   *action.Anchor
	closed bool
}

// New mounts an overlay. onClose runs once, when the card is closed.
func New(id, owner string, sess session.State, props Props, deps Deps, onClose func(id string)) (*Overlay, error) {
	if err := props.Validate(); err != nil {
		return nil, err
	}
	if deps.Translator == nil {
		deps.Translator = i18n.English
	}
	if deps.Reporter == nil {
		deps.Reporter = report.LogReporter{}
	}
	nav := &Outbox{}
	return &Overlay{
		id:       id,
		owner:    owner,
		deps:     deps,
		session:  sess,
		nav:      nav,
		onClose:  onClose,
		geofence: geofence.NewWorkflow(deps.Remote, nav, deps.Translator.T("sharedGeofence"), deps.GeofenceRadius),
		removal:  device.NewRemovalWorkflow(props.DeviceID, deps.Remote, deps.Devices),
		props:    props,
	}, nil
}

func (o *Overlay) ID() string    { return o.id }
func (o *Overlay) Owner() string { return o.owner }

// Navigations returns and clears the pending navigation targets.
func (o *Overlay) Navigations() []string { return o.nav.Drain() }

func (o *Overlay) Props() Props {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.props
}

func (o *Overlay) UI() UIState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.uiLocked()
}

func (o *Overlay) uiLocked() UIState {
	ui := UIState{Removing: o.removal.State() != device.RemovalIdle}
	if o.menu != nil {
		anchor := *o.menu
		ui.MenuAnchor = &anchor
	}
	return ui
}

// restore reapplies persisted UI state to a rebuilt overlay.
func (o *Overlay) restore(ui UIState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ui.MenuAnchor != nil && o.props.Position != nil {
		anchor := *ui.MenuAnchor
		o.menu = &anchor
	}
	if ui.Removing {
		_ = o.removal.Request()
	}
}

// sync applies state saved by another process. A removal already deleting
// here is left alone.
func (o *Overlay) sync(ctx context.Context, st State) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	o.props = st.Props
	o.menu = nil
	if st.UI.MenuAnchor != nil && st.Props.Position != nil {
		anchor := *st.UI.MenuAnchor
		o.menu = &anchor
	}
	o.mu.Unlock()

	switch state := o.removal.State(); {
	case st.UI.Removing && state == device.RemovalIdle:
		_ = o.removal.Request()
	case !st.UI.Removing && state == device.RemovalConfirming:
		// Dismissed elsewhere; resolving unconfirmed makes no remote calls.
		_ = o.removal.Resolve(ctx, false)
	}
	return nil
}

// detach marks the overlay closed without running onClose.
func (o *Overlay) detach() {
	o.mu.Lock()
	o.closed = true
	o.menu = nil
	o.mu.Unlock()
}

// Update replaces the props. The device cannot change for a mounted card.
func (o *Overlay) Update(p Props) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	if p.DeviceID == 0 {
		p.DeviceID = o.props.DeviceID
	}
	if p.DeviceID != o.props.DeviceID {
		return ErrBadProps
	}
	if err := p.Validate(); err != nil {
		return err
	}
	o.props = p
	if p.Position == nil {
		o.menu = nil
	}
	return nil
}

func (o *Overlay) gate(p Props) action.Gate {
	return action.Gate{
		HasPosition:     p.Position != nil,
		ActionsDisabled: p.DisableActions,
		DeviceReadonly:  o.session.DeviceReadonly(),
		ShareDisabled:   o.session.ShareDisabled(),
		TemporaryUser:   o.session.User.Temporary,
	}
}

// Invoke runs one card action. Disabled actions return action.ErrDisabled
// and change nothing.
func (o *Overlay) Invoke(a action.Action, anchor action.Anchor) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	fx := &effects{o: o}
	err := action.NewDispatcher(o.props.DeviceID, o.gate(o.props), fx).Dispatch(a, anchor)
	o.mu.Unlock()

	if fx.closed {
		o.Close()
	}
	return err
}

// effects applies dispatcher effects while the overlay lock is held.
type effects struct {
	o      *Overlay
	closed bool
}

func (e *effects) OpenMenu(a action.Anchor) {
	e.o.menu = &a
}

func (e *effects) Close() {
	e.closed = true
}

func (e *effects) GoTo(path string) {
	e.o.menu = nil
	e.o.nav.GoTo(path)
}

func (e *effects) RequestRemoval() error {
	return e.o.removal.Request()
}

func (o *Overlay) CloseMenu() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	o.menu = nil
	return nil
}

// Close unmounts the card. In-flight workflows still run to completion.
func (o *Overlay) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.menu = nil
	o.mu.Unlock()

	if o.onClose != nil {
		o.onClose(o.id)
	}
}

func (o *Overlay) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

// CreateGeofence runs the geofence workflow for the current position and
// queues navigation to the new geofence on success.
func (o *Overlay) CreateGeofence(ctx context.Context) (geofence.Geofence, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return geofence.Geofence{}, ErrClosed
	}
	p := o.props.Position
	o.menu = nil
	o.mu.Unlock()

	item, err := o.geofence.Run(ctx, p)
	if err != nil && !errors.Is(err, geofence.ErrBusy) && !errors.Is(err, geofence.ErrNoPosition) {
		o.deps.Reporter.Report(ctx, workflowGeofence, err)
	}
	return item, err
}

// ConfirmRemoval resolves the confirmation dialog opened by the remove action.
func (o *Overlay) ConfirmRemoval(ctx context.Context, confirmed bool) error {
	if o.Closed() {
		return ErrClosed
	}
	err := o.removal.Resolve(ctx, confirmed)
	if err != nil && !errors.Is(err, device.ErrBusy) && !errors.Is(err, device.ErrNotConfirming) {
		o.deps.Reporter.Report(ctx, workflowRemoval, err)
	}
	return err
}

// Render builds the card. A device missing from the cache renders nothing.
func (o *Overlay) Render(ctx context.Context) (*Card, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, ErrClosed
	}
	props := o.props
	ui := o.uiLocked()
	o.mu.Unlock()

	dev, ok := o.deps.Devices.Get(props.DeviceID)
	if !ok {
		return nil, nil
	}

	t := o.deps.Translator
	gate := o.gate(props)
	card := &Card{
		DeviceID:       dev.ID,
		Name:           dev.Name,
		MediaURL:       dev.MediaURL(),
		DesktopPadding: props.DesktopPadding.CSS(),
		UI:             ui,
	}

	for _, st := range action.NewDispatcher(props.DeviceID, gate, nil).Statuses() {
		card.Actions = append(card.Actions, ActionView{Action: st.Action, Title: t.T(st.TitleKey), Enabled: st.Enabled})
	}

	if p := props.Position; p != nil {
		card.DirectionsURL = links.GoogleMapsDirections(p.Latitude, p.Longitude)
		card.DetailsURL = "/position/" + p.ID.String()

		f := format.NewFormatter(t, o.prefs(), o.deps.Addresses)
		items := o.session.Preference("positionItems", attribute.DefaultItems)
		for _, row := range attribute.ResolveAll(items, p) {
			card.Rows = append(card.Rows, Row{Key: row.Key, Icon: row.Entry.Icon, Value: f.Format(ctx, row, p)})
		}

		if ui.MenuAnchor != nil {
			card.Menu = o.menuFor(p, *ui.MenuAnchor, gate)
		}
	}

	if ui.Removing {
		card.Confirm = &Confirmation{Resource: "devices", ID: props.DeviceID}
	}
	return card, nil
}

func (o *Overlay) menuFor(p *position.Position, anchor action.Anchor, gate action.Gate) *Menu {
	t := o.deps.Translator
	items := []MenuItem{{Name: CommandCreateGeofence, Title: t.T("sharedCreateGeofence"), Command: CommandCreateGeofence}}
	items = append(items, menuLinks(links.Menu(t.T, p.Latitude, p.Longitude, p.Course,
		o.session.Preference("navigationAppLink", ""),
		o.session.Preference("navigationAppTitle", "")))...)
	if gate.Enabled(action.ActionShare) {
		items = append(items, MenuItem{Name: string(action.ActionShare), Title: t.T(action.ActionShare.TitleKey()), Command: string(action.ActionShare)})
	}
	return &Menu{Anchor: anchor, Items: items}
}

func (o *Overlay) prefs() format.Prefs {
	loc, err := time.LoadLocation(o.session.Preference("timezone", "UTC"))
	if err != nil {
		loc = time.UTC
	}
	return format.Prefs{
		SpeedUnit:    o.session.Preference("speedUnit", "kn"),
		DistanceUnit: o.session.Preference("distanceUnit", "km"),
		Location:     loc,
		TwelveHour:   o.session.PreferenceBool("twelveHourFormat"),
	}
}
