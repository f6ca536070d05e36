package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dmitrijs2005/weatherdash/internal/common"
	"github.com/dmitrijs2005/weatherdash/internal/server/models"
	"github.com/dmitrijs2005/weatherdash/internal/server/observability"
)

// memFavouritesRepo keeps one account's favourites in insertion order, the
// same semantics the SQL schema enforces.
type memFavouritesRepo struct {
	locations []string
	failWith  error
}

func (m *memFavouritesRepo) Insert(ctx context.Context, accountID, location string) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, l := range m.locations {
		if l == location {
			return nil
		}
	}
	m.locations = append(m.locations, location)
	return nil
}

func (m *memFavouritesRepo) Delete(ctx context.Context, accountID, location string) error {
	if m.failWith != nil {
		return m.failWith
	}
	for i, l := range m.locations {
		if l == location {
			m.locations = append(m.locations[:i], m.locations[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memFavouritesRepo) DeleteAll(ctx context.Context, accountID string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.locations = nil
	return nil
}

func (m *memFavouritesRepo) List(ctx context.Context, accountID string) ([]string, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]string, len(m.locations))
	copy(out, m.locations)
	return out, nil
}

func (m *memFavouritesRepo) Count(ctx context.Context, accountID string) (int, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.locations), nil
}

func (m *memFavouritesRepo) Exists(ctx context.Context, accountID, location string) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	for _, l := range m.locations {
		if l == location {
			return true, nil
		}
	}
	return false, nil
}

func TestFavouriteAdd_Idempotent(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := &memFavouritesRepo{}
	accountsRepo := &fakeAccountsRepo{getOut: &models.Account{ID: "a-1", Username: "bob"}}
	rm := &fakeRepoManager{accountsRepo: accountsRepo, favouritesRepo: repo}
	svc := NewFavouriteService(db, rm, observability.NewMetricsForTesting(), testLogger())

	for i := 0; i < 3; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}

	if _, err := svc.Add(context.Background(), "bob", "Boston"); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, err := svc.Add(context.Background(), "bob", "London"); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	// Re-adding a member changes nothing and keeps exactly one occurrence.
	got, err := svc.Add(context.Background(), "bob", "Boston")
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	want := []string{"Boston", "London"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestFavouriteRemove_NonMemberIsNoop(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := &memFavouritesRepo{locations: []string{"Boston"}}
	accountsRepo := &fakeAccountsRepo{getOut: &models.Account{ID: "a-1", Username: "bob"}}
	rm := &fakeRepoManager{accountsRepo: accountsRepo, favouritesRepo: repo}
	svc := NewFavouriteService(db, rm, observability.NewMetricsForTesting(), testLogger())

	mock.ExpectBegin()
	mock.ExpectCommit()

	got, err := svc.Remove(context.Background(), "bob", "Paris")
	if err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Boston"}) {
		t.Fatalf("set must be unchanged, got %v", got)
	}
}

func TestFavouriteAdd_UnknownAccount(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		accountsRepo:   &fakeAccountsRepo{getErr: common.ErrNotFound},
		favouritesRepo: &memFavouritesRepo{},
	}
	svc := NewFavouriteService(db, rm, observability.NewMetricsForTesting(), testLogger())

	if _, err := svc.Add(context.Background(), "ghost", "Boston"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestFavouriteAdd_EmptyInput(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		accountsRepo:   &fakeAccountsRepo{getOut: &models.Account{ID: "a-1", Username: "bob"}},
		favouritesRepo: &memFavouritesRepo{},
	}
	svc := NewFavouriteService(db, rm, observability.NewMetricsForTesting(), testLogger())

	if _, err := svc.Add(context.Background(), "bob", ""); !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("want common.ErrInvalidInput for empty location, got %v", err)
	}
	if _, err := svc.Add(context.Background(), "", "Boston"); !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("want common.ErrInvalidInput for empty username, got %v", err)
	}
}

func TestFavouriteClearListCount(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &memFavouritesRepo{locations: []string{"Boston", "London"}}
	rm := &fakeRepoManager{
		accountsRepo:   &fakeAccountsRepo{getOut: &models.Account{ID: "a-1", Username: "bob"}},
		favouritesRepo: repo,
	}
	svc := NewFavouriteService(db, rm, observability.NewMetricsForTesting(), testLogger())

	count, err := svc.Count(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 2 {
		t.Fatalf("want 2, got %d", count)
	}

	if err := svc.Clear(context.Background(), "bob"); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	got, err := svc.List(context.Background(), "bob")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty set after clear, got %v", got)
	}
}

func TestFavouriteScenario_AddAddRemove(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := &memFavouritesRepo{}
	rm := &fakeRepoManager{
		accountsRepo:   &fakeAccountsRepo{getOut: &models.Account{ID: "a-1", Username: "bob"}},
		favouritesRepo: repo,
	}
	svc := NewFavouriteService(db, rm, observability.NewMetricsForTesting(), testLogger())

	for i := 0; i < 3; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}

	if _, err := svc.Add(context.Background(), "bob", "Hong Kong"); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, err := svc.Add(context.Background(), "bob", "Boston"); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, err := svc.Remove(context.Background(), "bob", "Hong Kong"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	got, err := svc.List(context.Background(), "bob")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Boston"}) {
		t.Fatalf("want [Boston], got %v", got)
	}

	count, err := svc.Count(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 1 {
		t.Fatalf("want 1, got %d", count)
	}
}

func TestIsFavourite(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &memFavouritesRepo{locations: []string{"Boston"}}
	rm := &fakeRepoManager{
		accountsRepo:   &fakeAccountsRepo{getOut: &models.Account{ID: "a-1", Username: "bob"}},
		favouritesRepo: repo,
	}
	svc := NewFavouriteService(db, rm, observability.NewMetricsForTesting(), testLogger())

	ok, err := svc.IsFavourite(context.Background(), "bob", "Boston")
	if err != nil {
		t.Fatalf("IsFavourite error: %v", err)
	}
	if !ok {
		t.Fatalf("Boston should be a favourite")
	}

	ok, err = svc.IsFavourite(context.Background(), "bob", "Paris")
	if err != nil {
		t.Fatalf("IsFavourite error: %v", err)
	}
	if ok {
		t.Fatalf("Paris should not be a favourite")
	}
}
