package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/clinicbook/appointment-system/internal/core/domain"
	"github.com/clinicbook/appointment-system/internal/core/ports"
)

// In-memory repositories shared by the service tests. They mirror the
// storage-level guarantees of the Mongo implementations: unique usernames,
// unique (doctor, scheduled_at) slots, one token per user.

type memUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	u := cloneUser(user)
	u.ID = fmt.Sprintf("u%d", r.seq)
	r.users[u.ID] = u
	return cloneUser(u), nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context, role *domain.Role) ([]*domain.User, error) {
	out := make([]*domain.User, 0)
	for _, u := range r.users {
		if role == nil || u.Role == *role {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *memUserRepo) SearchDoctors(_ context.Context, sub string) ([]*domain.User, error) {
	out := make([]*domain.User, 0)
	for _, u := range r.users {
		if u.Role == domain.RoleDoctor && strings.Contains(strings.ToLower(u.Username), strings.ToLower(sub)) {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type memTokenRepo struct {
	byToken map[string]*domain.AuthToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{byToken: make(map[string]*domain.AuthToken)}
}

func (r *memTokenRepo) Create(_ context.Context, t *domain.AuthToken) error {
	for _, existing := range r.byToken {
		if existing.UserID == t.UserID {
			return domain.ErrUserExists
		}
	}
	clone := *t
	r.byToken[t.Token] = &clone
	return nil
}

func (r *memTokenRepo) FindByUserID(_ context.Context, userID string) (*domain.AuthToken, error) {
	for _, t := range r.byToken {
		if t.UserID == userID {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTokenNotFound
}

func (r *memTokenRepo) FindByToken(_ context.Context, token string) (*domain.AuthToken, error) {
	if t, ok := r.byToken[token]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, domain.ErrTokenNotFound
}

func (r *memTokenRepo) DeleteByUserID(_ context.Context, userID string) error {
	for k, t := range r.byToken {
		if t.UserID == userID {
			delete(r.byToken, k)
		}
	}
	return nil
}

type memAppointmentRepo struct {
	seq   int
	appts map[string]*domain.Appointment
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{appts: make(map[string]*domain.Appointment)}
}

func cloneAppt(a *domain.Appointment) *domain.Appointment {
	clone := *a
	return &clone
}

func (r *memAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	for _, existing := range r.appts {
		if existing.DoctorID == a.DoctorID && existing.ScheduledAt.Equal(a.ScheduledAt) {
			return nil, domain.ErrSlotConflict
		}
	}
	r.seq++
	clone := cloneAppt(a)
	clone.ID = fmt.Sprintf("a%d", r.seq)
	r.appts[clone.ID] = clone
	return cloneAppt(clone), nil
}

func (r *memAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	if a, ok := r.appts[id]; ok {
		return cloneAppt(a), nil
	}
	return nil, domain.ErrAppointmentNotFound
}

func (r *memAppointmentRepo) ListAll(_ context.Context) ([]*domain.Appointment, error) {
	return r.sorted(func(*domain.Appointment) bool { return true }), nil
}

func (r *memAppointmentRepo) ListByDoctor(_ context.Context, doctorID string) ([]*domain.Appointment, error) {
	return r.sorted(func(a *domain.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (r *memAppointmentRepo) ListInRange(_ context.Context, filter ports.RangeFilter) ([]*domain.Appointment, error) {
	return r.sorted(func(a *domain.Appointment) bool {
		if a.ScheduledAt.Before(filter.From) {
			return false
		}
		if filter.To != nil && !a.ScheduledAt.Before(*filter.To) {
			return false
		}
		if filter.DoctorIDs == nil {
			return true
		}
		for _, id := range filter.DoctorIDs {
			if a.DoctorID == id {
				return true
			}
		}
		return false
	}), nil
}

func (r *memAppointmentRepo) sorted(keep func(*domain.Appointment) bool) []*domain.Appointment {
	out := make([]*domain.Appointment, 0)
	for _, a := range r.appts {
		if keep(a) {
			out = append(out, cloneAppt(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out
}

func (r *memAppointmentRepo) Update(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if _, ok := r.appts[a.ID]; !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	for id, existing := range r.appts {
		if id != a.ID && existing.DoctorID == a.DoctorID && existing.ScheduledAt.Equal(a.ScheduledAt) {
			return nil, domain.ErrSlotConflict
		}
	}
	r.appts[a.ID] = cloneAppt(a)
	return cloneAppt(a), nil
}

func (r *memAppointmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.appts[id]; !ok {
		return domain.ErrAppointmentNotFound
	}
	delete(r.appts, id)
	return nil
}
