package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/calllog-service/internal/domain"
)

type memoryState struct {
	employees   []domain.Employee
	calls       []domain.Call
	loginEvents []domain.LoginEvent
	settings    map[string]domain.Setting

	nextEmployeeID   int64
	nextCallID       int64
	nextLoginEventID int64
}

func (st *memoryState) clone() *memoryState {
	out := *st
	out.employees = append([]domain.Employee(nil), st.employees...)
	out.calls = append([]domain.Call(nil), st.calls...)
	out.loginEvents = append([]domain.LoginEvent(nil), st.loginEvents...)
	out.settings = make(map[string]domain.Setting, len(st.settings))
	for k, v := range st.settings {
		out.settings[k] = v
	}
	return &out
}

// MemoryStore is an in-process Store used when no database is configured
// and in tests. Transactions hold the store lock and commit a copy of the
// state only when the callback succeeds.
type MemoryStore struct {
	mu     *sync.Mutex
	state  *memoryState
	locked bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		state: &memoryState{
			settings:         map[string]domain.Setting{},
			nextEmployeeID:   1,
			nextCallID:       1,
			nextLoginEventID: 1,
		},
	}
}

func (s *MemoryStore) guard() func() {
	if s.locked {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.guard()()

	working := s.state.clone()
	tx := &MemoryStore{mu: s.mu, state: working, locked: true}
	if err := fn(tx); err != nil {
		return err
	}
	*s.state = *working
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) InsertEmployee(_ context.Context, employee *domain.Employee) error {
	defer s.guard()()
	for _, existing := range s.state.employees {
		if strings.EqualFold(existing.Name, employee.Name) {
			return fmt.Errorf("insert employee: %w", ErrConflict)
		}
	}
	employee.ID = s.state.nextEmployeeID
	employee.CreatedAt = stampNow(employee.CreatedAt)
	s.state.nextEmployeeID++
	s.state.employees = append(s.state.employees, *employee)
	return nil
}

func (s *MemoryStore) FindEmployeeByID(_ context.Context, id int64) (*domain.Employee, error) {
	defer s.guard()()
	for _, employee := range s.state.employees {
		if employee.ID == id {
			found := employee
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindEmployeeByName(_ context.Context, name string) (*domain.Employee, error) {
	defer s.guard()()
	for _, employee := range s.state.employees {
		if employee.Name == name {
			found := employee
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) EmployeeNameTaken(_ context.Context, name string) (bool, error) {
	defer s.guard()()
	for _, employee := range s.state.employees {
		if strings.EqualFold(employee.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListEmployees(_ context.Context) ([]domain.Employee, error) {
	defer s.guard()()
	out := append([]domain.Employee{}, s.state.employees...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteEmployee also drops the employee's calls, mirroring the foreign key
// cascade in the SQL schema.
func (s *MemoryStore) DeleteEmployee(_ context.Context, id int64) error {
	defer s.guard()()
	idx := -1
	for i, employee := range s.state.employees {
		if employee.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	s.state.employees = append(s.state.employees[:idx], s.state.employees[idx+1:]...)
	s.state.calls = s.state.dropCalls(id)
	return nil
}

func (s *MemoryStore) InsertCall(_ context.Context, call *domain.Call) error {
	defer s.guard()()
	if !s.state.hasEmployee(call.EmployeeID) {
		return fmt.Errorf("insert call for employee %d: %w", call.EmployeeID, ErrNotFound)
	}
	call.ID = s.state.nextCallID
	call.CreatedAt = stampNow(call.CreatedAt)
	s.state.nextCallID++
	s.state.calls = append(s.state.calls, *call)
	return nil
}

func (s *MemoryStore) ListCallsForEmployee(ctx context.Context, employeeID int64) ([]domain.Call, error) {
	return s.ListCalls(ctx, CallFilter{EmployeeID: &employeeID})
}

func (s *MemoryStore) ListCalls(_ context.Context, filter CallFilter) ([]domain.Call, error) {
	defer s.guard()()
	out := []domain.Call{}
	for _, call := range s.state.calls {
		if filter.EmployeeID != nil && call.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.AnsweredOnly && !call.Answered {
			continue
		}
		if filter.From != nil && call.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !call.CreatedAt.Before(*filter.To) {
			continue
		}
		out = append(out, call)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) DeleteCallsForEmployee(_ context.Context, employeeID int64) (int64, error) {
	defer s.guard()()
	before := len(s.state.calls)
	s.state.calls = s.state.dropCalls(employeeID)
	return int64(before - len(s.state.calls)), nil
}

func (s *MemoryStore) InsertLoginEvent(_ context.Context, event *domain.LoginEvent) error {
	defer s.guard()()
	event.ID = s.state.nextLoginEventID
	event.CreatedAt = stampNow(event.CreatedAt)
	s.state.nextLoginEventID++
	s.state.loginEvents = append(s.state.loginEvents, *event)
	return nil
}

func (s *MemoryStore) ListLoginEvents(_ context.Context) ([]domain.LoginEvent, error) {
	defer s.guard()()
	out := append([]domain.LoginEvent{}, s.state.loginEvents...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) DeleteLoginEventsForEmployee(_ context.Context, employeeID int64) (int64, error) {
	defer s.guard()()
	key := strconv.FormatInt(employeeID, 10)
	kept := s.state.loginEvents[:0:0]
	for _, event := range s.state.loginEvents {
		if event.EmployeeID != key {
			kept = append(kept, event)
		}
	}
	removed := len(s.state.loginEvents) - len(kept)
	s.state.loginEvents = kept
	return int64(removed), nil
}

func (s *MemoryStore) GetSetting(_ context.Context, key string) (*domain.Setting, error) {
	defer s.guard()()
	setting, ok := s.state.settings[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &setting, nil
}

func (s *MemoryStore) UpsertSetting(_ context.Context, key, value string) error {
	defer s.guard()()
	s.state.settings[key] = domain.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return nil
}

func (st *memoryState) hasEmployee(id int64) bool {
	for _, employee := range st.employees {
		if employee.ID == id {
			return true
		}
	}
	return false
}

func (st *memoryState) dropCalls(employeeID int64) []domain.Call {
	kept := st.calls[:0:0]
	for _, call := range st.calls {
		if call.EmployeeID != employeeID {
			kept = append(kept, call)
		}
	}
	return kept
}
