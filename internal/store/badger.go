// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/ridematch/internal/logging"
	"github.com/tomtom215/ridematch/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	userKeyPrefix    = "user:"
	emailKeyPrefix   = "user_email:"
	rideKeyPrefix    = "ride:"
	messageKeyPrefix = "msg:"

	userSeqKey    = "seq:user"
	rideSeqKey    = "seq:ride"
	messageSeqKey = "seq:message"

	// seqBandwidth is how many ids each sequence leases at a time.
	seqBandwidth = 100

	// maxTxnRetries bounds retries of a transaction that lost a write conflict.
	maxTxnRetries = 5
)

// Badger is the BadgerDB-backed Storage. Values are JSON documents; ids come
// from badger sequences so they stay monotonic across restarts.
type Badger struct {
	db *badger.DB

	userSeq    *badger.Sequence
	rideSeq    *badger.Sequence
	messageSeq *badger.Sequence

	closeOnce sync.Once
	now       func() time.Time
}

// userDoc is the stored form of a user. It keeps the password hash, which
// models.User never serializes.
type userDoc struct {
	ID                 int64            `json:"id"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	PasswordHash       string           `json:"password_hash"`
	Role               string           `json:"role"`
	Avatar             string           `json:"avatar"`
	CurrentLocation    *models.Location `json:"current_location"`
	Active             bool             `json:"active"`
	ComfortPreferences map[string]any   `json:"comfort_preferences"`
	CreatedAt          time.Time        `json:"created_at"`
}

func docFromUser(u models.User) userDoc {
	return userDoc{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		Role:               u.Role,
		Avatar:             u.Avatar,
		CurrentLocation:    u.CurrentLocation,
		Active:             u.Active,
		ComfortPreferences: u.ComfortPreferences,
		CreatedAt:          u.CreatedAt,
	}
}

func (d userDoc) user() models.User {
	return models.User{
		ID:                 d.ID,
		Name:               d.Name,
		Email:              d.Email,
		PasswordHash:       d.PasswordHash,
		Role:               d.Role,
		Avatar:             d.Avatar,
		CurrentLocation:    d.CurrentLocation,
		Active:             d.Active,
		ComfortPreferences: d.ComfortPreferences,
		CreatedAt:          d.CreatedAt,
	}
}

// OpenBadger opens (or creates) a badger store at path. An empty path opens
// an in-memory database, which is what tests use.
func OpenBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}

	s := &Badger{db: db, now: time.Now}
	for _, seq := range []struct {
		key string
		dst **badger.Sequence
	}{
		{userSeqKey, &s.userSeq},
		{rideSeqKey, &s.rideSeq},
		{messageSeqKey, &s.messageSeq},
	} {
		*seq.dst, err = db.GetSequence([]byte(seq.key), seqBandwidth)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open sequence %s: %w", seq.key, err)
		}
	}

	logging.Info().Str("path", path).Bool("in_memory", path == "").Msg("Opened badger entity store")
	return s, nil
}

// Close releases the id sequences and closes the database.
func (s *Badger) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		for _, seq := range []*badger.Sequence{s.userSeq, s.rideSeq, s.messageSeq} {
			if seq == nil {
				continue
			}
			if err := seq.Release(); err != nil {
				logging.Warn().Err(err).Msg("Failed to release badger sequence")
			}
		}
		closeErr = s.db.Close()
	})
	return closeErr
}

func idKey(prefix string, id int64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(id))
	return key
}

func messageKey(rideMatchID, id int64) []byte {
	key := idKey(messageKeyPrefix, rideMatchID)
	return binary.BigEndian.AppendUint64(key, uint64(id))
}

// nextID draws from seq. Sequences start at zero; ids start at one.
func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next sequence value: %w", err)
	}
	return int64(n) + 1, nil
}

// update runs fn in a read-write transaction, retrying on write conflicts.
func (s *Badger) update(fn func(txn *badger.Txn) error) error {
	for attempt := 0; ; attempt++ {
		err := s.db.Update(fn)
		if errors.Is(err, badger.ErrConflict) && attempt < maxTxnRetries {
			continue
		}
		return err
	}
}

func getJSON(txn *badger.Txn, key []byte, dst any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func notFound(kind string, id int64, err error) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, models.ErrNotFound)
	}
	return fmt.Errorf("get %s %d: %w", kind, id, err)
}

// CreateUser stores a new inactive user without a location.
func (s *Badger) CreateUser(_ context.Context, p models.CreateUserParams) (models.User, error) {
	if err := validateUser(p); err != nil {
		return models.User{}, err
	}
	email := models.NormalizeEmail(p.Email)

	id, err := nextID(s.userSeq)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{
		ID:                 id,
		Name:               p.Name,
		Email:              email,
		PasswordHash:       p.PasswordHash,
		Role:               p.Role,
		Avatar:             p.Avatar,
		ComfortPreferences: p.ComfortPreferences,
		CreatedAt:          s.now().UTC(),
	}

	err = s.update(func(txn *badger.Txn) error {
		emailKey := []byte(emailKeyPrefix + email)
		if _, err := txn.Get(emailKey); err == nil {
			return fmt.Errorf("email %s already registered: %w", email, models.ErrConflict)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check email: %w", err)
		}
		if err := setJSON(txn, idKey(userKeyPrefix, id), docFromUser(u)); err != nil {
			return err
		}
		return txn.Set(emailKey, idKey("", id))
	})
	if err != nil {
		return models.User{}, err
	}
	return u.Clone(), nil
}

// GetUser returns the user with the given id.
func (s *Badger) GetUser(_ context.Context, id int64) (models.User, error) {
	var doc userDoc
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, idKey(userKeyPrefix, id), &doc)
	})
	if err != nil {
		return models.User{}, notFound("user", id, err)
	}
	return doc.user(), nil
}

// GetUserByEmail looks a user up by case-insensitive email.
func (s *Badger) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var id int64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailKeyPrefix + models.NormalizeEmail(email)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt email index for %s", email)
			}
			id = int64(binary.BigEndian.Uint64(val))
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.User{}, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("lookup email %s: %w", email, err)
	}
	return s.GetUser(ctx, id)
}

// mutateUser applies fn to the stored user in a single transaction.
func (s *Badger) mutateUser(id int64, fn func(*userDoc)) (models.User, error) {
	var doc userDoc
	err := s.update(func(txn *badger.Txn) error {
		doc = userDoc{}
		key := idKey(userKeyPrefix, id)
		if err := getJSON(txn, key, &doc); err != nil {
			return notFound("user", id, err)
		}
		fn(&doc)
		return setJSON(txn, key, doc)
	})
	if err != nil {
		return models.User{}, err
	}
	return doc.user(), nil
}

// UpdateUserLocation sets the user's current location.
func (s *Badger) UpdateUserLocation(_ context.Context, id int64, loc models.Location) (models.User, error) {
	if err := validateLocation(loc); err != nil {
		return models.User{}, err
	}
	return s.mutateUser(id, func(d *userDoc) { d.CurrentLocation = &loc })
}

// SetUserActive sets the user's presence flag.
func (s *Badger) SetUserActive(_ context.Context, id int64, active bool) (models.User, error) {
	return s.mutateUser(id, func(d *userDoc) { d.Active = active })
}

// ListUsers returns every user ordered by id.
func (s *Badger) ListUsers(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(userKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var doc userDoc
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return err
			}
			out = append(out, doc.user())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// CreateRide stores a new ride. An empty status defaults to active.
func (s *Badger) CreateRide(_ context.Context, p models.CreateRideParams) (models.Ride, error) {
	status, err := rideStatusOrDefault(p)
	if err != nil {
		return models.Ride{}, err
	}
	id, err := nextID(s.rideSeq)
	if err != nil {
		return models.Ride{}, err
	}
	r := models.Ride{
		ID:             id,
		UserID:         p.UserID,
		Type:           p.Type,
		Status:         status,
		Route:          p.Route.Clone(),
		VehicleType:    p.VehicleType,
		IsPooling:      p.IsPooling,
		AvailableSeats: p.AvailableSeats,
		Price:          p.Price,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.update(func(txn *badger.Txn) error {
		return setJSON(txn, idKey(rideKeyPrefix, id), r)
	}); err != nil {
		return models.Ride{}, err
	}
	return r, nil
}

// GetRide returns the ride with the given id.
func (s *Badger) GetRide(_ context.Context, id int64) (models.Ride, error) {
	var r models.Ride
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, idKey(rideKeyPrefix, id), &r)
	})
	if err != nil {
		return models.Ride{}, notFound("ride", id, err)
	}
	return r.Clone(), nil
}

// UpdateRideStatus moves a ride to status if the transition is allowed.
func (s *Badger) UpdateRideStatus(_ context.Context, id int64, status models.RideStatus) (models.Ride, error) {
	var r models.Ride
	err := s.update(func(txn *badger.Txn) error {
		r = models.Ride{}
		key := idKey(rideKeyPrefix, id)
		if err := getJSON(txn, key, &r); err != nil {
			return notFound("ride", id, err)
		}
		if err := checkTransition(id, r.Status, status); err != nil {
			return err
		}
		if r.Status == status {
			return nil
		}
		r.Status = status
		return setJSON(txn, key, r)
	})
	if err != nil {
		return models.Ride{}, err
	}
	return r.Clone(), nil
}

// ListActiveRides returns active rides of rideType (all types when empty), ordered by id.
func (s *Badger) ListActiveRides(_ context.Context, rideType models.RideType) ([]models.Ride, error) {
	out := make([]models.Ride, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(rideKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var r models.Ride
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			if r.Status == models.RideStatusActive && (rideType == "" || r.Type == rideType) {
				out = append(out, r.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list active rides: %w", err)
	}
	return out, nil
}

// CreateMessage appends a message to its conversation.
func (s *Badger) CreateMessage(_ context.Context, p models.CreateMessageParams) (models.Message, error) {
	if err := validateMessage(p); err != nil {
		return models.Message{}, err
	}
	id, err := nextID(s.messageSeq)
	if err != nil {
		return models.Message{}, err
	}
	msg := models.Message{
		ID:          id,
		RideMatchID: p.RideMatchID,
		SenderID:    p.SenderID,
		Content:     p.Content,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.update(func(txn *badger.Txn) error {
		return setJSON(txn, messageKey(p.RideMatchID, id), msg)
	}); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// ListMessages returns a conversation ordered by CreatedAt, then ID.
func (s *Badger) ListMessages(_ context.Context, rideMatchID int64) ([]models.Message, error) {
	out := make([]models.Message, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := idKey(messageKeyPrefix, rideMatchID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var msg models.Message
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &msg)
			}); err != nil {
				return err
			}
			out = append(out, msg)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list messages for ride %d: %w", rideMatchID, err)
	}
	sortMessages(out)
	return out, nil
}
