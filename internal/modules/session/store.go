package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fleetcard/internal/types"
)

var ErrNotFound = errors.New("user not found")

// Querier is the subset of *pgxpool.Pool the store needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads users and server settings from the tracking server database.
type Store struct {
	db Querier
}

func NewStore(db Querier) *Store {
	return &Store{db: db}
}

const loadSQL = `
	SELECT u.id, u.email, u.administrator, u.readonly, u.devicereadonly, u.temporary, u.attributes,
	       s.readonly, s.devicereadonly, s.attributes
	FROM tc_users u
	CROSS JOIN (SELECT readonly, devicereadonly, attributes FROM tc_servers ORDER BY id LIMIT 1) s
	WHERE u.email = $1 AND NOT u.disabled`

func (s *Store) Load(ctx context.Context, email string) (State, error) {
	var st State
	var userID int64
	var userAttrs, serverAttrs *string

	err := s.db.QueryRow(ctx, loadSQL, email).Scan(
		&userID, &st.User.Email, &st.User.Administrator, &st.User.Readonly,
		&st.User.DeviceReadonly, &st.User.Temporary, &userAttrs,
		&st.Server.Readonly, &st.Server.DeviceReadonly, &serverAttrs,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, err
	}

	st.User.ID = types.ID(userID)
	if st.User.Attributes, err = decodeAttributes(userAttrs); err != nil {
		return State{}, fmt.Errorf("user %d attributes: %w", userID, err)
	}
	if st.Server.Attributes, err = decodeAttributes(serverAttrs); err != nil {
		return State{}, fmt.Errorf("server attributes: %w", err)
	}
	return st, nil
}

func decodeAttributes(raw *string) (map[string]any, error) {
	attrs := map[string]any{}
	if raw == nil || *raw == "" {
		return attrs, nil
	}
	if err := json.Unmarshal([]byte(*raw), &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}
