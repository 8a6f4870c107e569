package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"adminpanel/internal/model"
	"adminpanel/internal/repository"
)

var errStoreDown = errors.New("store unavailable")

type fakeUserStore struct {
	users     map[string]*model.User
	saveCount int
	saveErr   error
	deleted   []string
	cleared   []string
	clearErr  error
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*model.User)}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) ExistsOtherByUsername(_ context.Context, username string, excludeID int64) (bool, error) {
	for _, user := range s.users {
		if user.Username == username && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) ExistsOtherByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, user := range s.users {
		if user.Email == email && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) Save(_ context.Context, user *model.User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saveCount++
	for name, existing := range s.users {
		if existing.ID == user.ID {
			delete(s.users, name)
			break
		}
	}
	copied := *user
	s.users[user.Username] = &copied
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, username string) error {
	if _, ok := s.users[username]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, username)
	s.deleted = append(s.deleted, username)
	return nil
}

func (s *fakeUserStore) ListAll(_ context.Context) ([]*model.User, error) {
	var users []*model.User
	for _, user := range s.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

// ClearOtpFields 和真实实现一致：UPDATE 不报告行是否真的变化，
// 用户不存在或字段本就为空都静默成功
func (s *fakeUserStore) ClearOtpFields(_ context.Context, username string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	if user, ok := s.users[username]; ok {
		user.OtpCode = nil
		user.OtpCodeExpired = nil
		user.Aktifitas = nil
	}
	s.cleared = append(s.cleared, username)
	return nil
}

type fakeOtpStore struct {
	logs      []*model.OtpLog
	findErr   error
	listErr   error
	markErr   error
	lastLimit int
	markCalls int
}

func (s *fakeOtpStore) FindActiveByNomor(_ context.Context, nomor string, now time.Time) (*model.OtpLog, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	var newest *model.OtpLog
	for _, row := range s.logs {
		if row.Nomor != nomor || !row.IsActive(now) {
			continue
		}
		if newest == nil || row.CreatedAt.After(newest.CreatedAt) {
			newest = row
		}
	}
	if newest == nil {
		return nil, nil
	}
	copied := *newest
	return &copied, nil
}

func (s *fakeOtpStore) FindAllByNomor(_ context.Context, nomor string, limit int) ([]*model.OtpLog, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.lastLimit = limit
	var rows []*model.OtpLog
	for _, row := range s.logs {
		if row.Nomor == nomor {
			copied := *row
			rows = append(rows, &copied)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *fakeOtpStore) MarkUsedByNomor(_ context.Context, nomor string, now time.Time) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.markCalls++
	for _, row := range s.logs {
		if row.Nomor == nomor && row.IsActive(now) {
			row.Used = true
		}
	}
	return nil
}

type historyKey struct {
	userID int64
	trxID  string
}

type fakeHistoryStore struct {
	deposits map[historyKey]*model.DepositHistory
	orders   map[historyKey]*model.OrderHistory
}

func newFakeHistoryStore() *fakeHistoryStore {
	return &fakeHistoryStore{
		deposits: make(map[historyKey]*model.DepositHistory),
		orders:   make(map[historyKey]*model.OrderHistory),
	}
}

func (s *fakeHistoryStore) GetDeposit(_ context.Context, userID int64, trxID string) (*model.DepositHistory, error) {
	deposit, ok := s.deposits[historyKey{userID, trxID}]
	if !ok {
		return nil, repository.ErrDepositNotFound
	}
	copied := *deposit
	return &copied, nil
}

func (s *fakeHistoryStore) UpdateDepositStatus(_ context.Context, userID int64, trxID string, status string) error {
	deposit, ok := s.deposits[historyKey{userID, trxID}]
	if !ok {
		return repository.ErrDepositNotFound
	}
	deposit.Status = status
	return nil
}

func (s *fakeHistoryStore) GetOrder(_ context.Context, userID int64, trxID string) (*model.OrderHistory, error) {
	order, ok := s.orders[historyKey{userID, trxID}]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *fakeHistoryStore) UpdateOrder(_ context.Context, userID int64, trxID string, status, sn string) error {
	order, ok := s.orders[historyKey{userID, trxID}]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	order.Sn = sn
	return nil
}

type fakeAuditStore struct {
	messages  []*model.AuditMessage
	createErr error
}

func (s *fakeAuditStore) Create(_ context.Context, msg *model.AuditMessage) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.messages = append(s.messages, msg)
	return nil
}

// fakeTx 直接执行闭包，记录分组次数
type fakeTx struct {
	calls int
}

func (t *fakeTx) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}
