package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	appdomain "jobtrail-backend/internal/application/domain"
	authdomain "jobtrail-backend/internal/auth/domain"
	emaildomain "jobtrail-backend/internal/email/domain"
	"jobtrail-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes. The sync usecase only touches repositories through
// their interfaces, so plain slices and maps are enough.

type fakeUserRepo struct {
	users map[string]*authdomain.User
}

func (r *fakeUserRepo) Create(user *authdomain.User) error {
	r.users[user.ID] = user
	return nil
}
func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) { return r.users[id], nil }
func (r *fakeUserRepo) Update(user *authdomain.User) error {
	r.users[user.ID] = user
	return nil
}

type fakeAppRepo struct {
	apps []*appdomain.Application
	next int
}

func (r *fakeAppRepo) Create(app *appdomain.Application) error {
	r.next++
	app.ID = fmt.Sprintf("app-%d", r.next)
	r.apps = append(r.apps, app)
	return nil
}
func (r *fakeAppRepo) Update(app *appdomain.Application) error { return nil }
func (r *fakeAppRepo) FindByID(id string) (*appdomain.Application, error) {
	for _, a := range r.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}
func (r *fakeAppRepo) GetApplicationsForUser(userID string) ([]*appdomain.Application, error) {
	var out []*appdomain.Application
	for _, a := range r.apps {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeStatusRepo struct {
	records   []*appdomain.StatusUpdateRecord
	createErr error
}

func (r *fakeStatusRepo) Create(record *appdomain.StatusUpdateRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, record)
	return nil
}
func (r *fakeStatusRepo) ExistsForEmail(userID, emailID string) (bool, error) {
	for _, rec := range r.records {
		if rec.UserID == userID && rec.EmailID == emailID {
			return true, nil
		}
	}
	return false, nil
}
func (r *fakeStatusRepo) ListForApplication(applicationID string) ([]*appdomain.StatusUpdateRecord, error) {
	var out []*appdomain.StatusUpdateRecord
	for _, rec := range r.records {
		if rec.ApplicationID == applicationID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeAccountRepo struct {
	accounts map[string]*appdomain.EmailAccount // keyed by userID+provider
}

func (r *fakeAccountRepo) key(userID, provider string) string { return userID + "/" + provider }
func (r *fakeAccountRepo) GetAccount(userID, provider string) (*appdomain.EmailAccount, error) {
	return r.accounts[r.key(userID, provider)], nil
}
func (r *fakeAccountRepo) EnsureAccount(userID, provider string) (*appdomain.EmailAccount, error) {
	k := r.key(userID, provider)
	if acc, ok := r.accounts[k]; ok {
		return acc, nil
	}
	acc := &appdomain.EmailAccount{UserID: userID, Provider: provider}
	r.accounts[k] = acc
	return acc, nil
}
func (r *fakeAccountRepo) SetWatermark(userID, provider, lastEmailID string, lastInternalDate int64) error {
	acc, ok := r.accounts[r.key(userID, provider)]
	if !ok {
		return errors.New("account not found")
	}
	acc.LastEmailID = lastEmailID
	acc.LastEmailInternalDate = lastInternalDate
	return nil
}
func (r *fakeAccountRepo) ListProviders(userID string) ([]string, error) {
	var out []string
	for _, acc := range r.accounts {
		if acc.UserID == userID {
			out = append(out, acc.Provider)
		}
	}
	return out, nil
}
func (r *fakeAccountRepo) DeleteAccount(userID, provider string) error {
	delete(r.accounts, r.key(userID, provider))
	return nil
}

// fakeProvider always returns every ref regardless of the watermark,
// mimicking the boundary over-fetch real providers exhibit.
type fakeProvider struct {
	refs     []emaildomain.MessageRef
	messages map[string]*emaildomain.InboxMessage
	listErr  error
	getErrs  map[string]error
}

func (p *fakeProvider) ListMessages(ctx context.Context, accessToken, refreshToken string, afterInternalDate int64, maxResults int64, onTokenRefresh emaildomain.TokenUpdateFunc) ([]emaildomain.MessageRef, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.refs, nil
}

func (p *fakeProvider) GetMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh emaildomain.TokenUpdateFunc) (*emaildomain.InboxMessage, error) {
	if err := p.getErrs[id]; err != nil {
		return nil, err
	}
	return p.messages[id], nil
}

func plainTextMessage(id string, internalDate int64, from, subject, body string) *emaildomain.InboxMessage {
	return &emaildomain.InboxMessage{
		ID:           id,
		InternalDate: internalDate,
		Headers: []emaildomain.Header{
			{Name: "Subject", Value: subject},
			{Name: "From", Value: from},
		},
		Payload: &emaildomain.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*emaildomain.MessagePart{
				{MimeType: "text/plain", BodyData: base64.RawURLEncoding.EncodeToString([]byte(body))},
			},
		},
	}
}

type testEnv struct {
	uc       *syncUsecase
	userRepo *fakeUserRepo
	appRepo  *fakeAppRepo
	statRepo *fakeStatusRepo
	accRepo  *fakeAccountRepo
	provider *fakeProvider
}

func newTestEnv(msgs ...*emaildomain.InboxMessage) *testEnv {
	provider := &fakeProvider{messages: map[string]*emaildomain.InboxMessage{}, getErrs: map[string]error{}}
	for _, m := range msgs {
		provider.refs = append(provider.refs, emaildomain.MessageRef{ID: m.ID})
		provider.messages[m.ID] = m
	}

	env := &testEnv{
		userRepo: &fakeUserRepo{users: map[string]*authdomain.User{}},
		appRepo:  &fakeAppRepo{},
		statRepo: &fakeStatusRepo{},
		accRepo:  &fakeAccountRepo{accounts: map[string]*appdomain.EmailAccount{}},
		provider: provider,
	}
	env.userRepo.users["u1"] = &authdomain.User{
		ID:          "u1",
		Email:       "me@example.com",
		Provider:    "google",
		AccessToken: "access-token",
	}
	env.uc = &syncUsecase{
		userRepo:     env.userRepo,
		appRepo:      env.appRepo,
		statusRepo:   env.statRepo,
		accountRepo:  env.accRepo,
		mailProvider: provider,
		config:       &config.Config{SyncMaxResults: 200},
		userLocks:    map[string]*sync.Mutex{},
	}
	return env
}

func appliedMessage(id string, internalDate int64) *emaildomain.InboxMessage {
	return plainTextMessage(id, internalDate,
		"Acme Careers <careers@acme.com>",
		"Thank you for applying to Acme",
		"We received your application for Software Engineer at Acme.")
}

func rejectedMessage(id string, internalDate int64) *emaildomain.InboxMessage {
	return plainTextMessage(id, internalDate,
		"Acme Careers <careers@acme.com>",
		"Update on your application",
		"We regret to inform you that we will not be moving forward. Unfortunately we chose another candidate.")
}

func TestSyncUserCreatesApplication(t *testing.T) {
	env := newTestEnv(appliedMessage("m1", 1000))

	summary, err := env.uc.SyncUser(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 0, summary.Skipped)

	require.Len(t, env.appRepo.apps, 1)
	app := env.appRepo.apps[0]
	assert.Equal(t, "u1", app.UserID)
	assert.Equal(t, "acme", app.Name)
	assert.Equal(t, "Software Engineer", app.Description)
	assert.Equal(t, appdomain.StatusApplied, app.Status)

	require.Len(t, env.statRepo.records, 1)
	assert.Equal(t, "m1", env.statRepo.records[0].EmailID)
	assert.Equal(t, appdomain.StatusApplied, env.statRepo.records[0].Status)

	acc, _ := env.accRepo.GetAccount("u1", "google")
	require.NotNil(t, acc)
	assert.Equal(t, int64(1000), acc.LastEmailInternalDate)
	assert.Equal(t, "m1", acc.LastEmailID)
}

func TestSyncUserMatchesWithinSameBatch(t *testing.T) {
	env := newTestEnv(appliedMessage("m1", 1000), rejectedMessage("m2", 2000))

	summary, err := env.uc.SyncUser(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)

	require.Len(t, env.appRepo.apps, 1)
	assert.Equal(t, appdomain.StatusRejected, env.appRepo.apps[0].Status)

	acc, _ := env.accRepo.GetAccount("u1", "google")
	assert.Equal(t, int64(2000), acc.LastEmailInternalDate)
}

func TestSyncUserIsIdempotent(t *testing.T) {
	env := newTestEnv(appliedMessage("m1", 1000), rejectedMessage("m2", 2000))

	_, err := env.uc.SyncUser(context.Background(), "u1")
	require.NoError(t, err)

	// The provider over-fetches the same messages on the next cycle; the
	// duplicate gate must absorb them.
	summary, err := env.uc.SyncUser(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 2, summary.ReasonCounts[ReasonDuplicate])

	assert.Len(t, env.appRepo.apps, 1)
	assert.Len(t, env.statRepo.records, 2)

	acc, _ := env.accRepo.GetAccount("u1", "google")
	assert.Equal(t, int64(2000), acc.LastEmailInternalDate)
}

func TestSyncUserListingFailureLeavesWatermark(t *testing.T) {
	env := newTestEnv(appliedMessage("m1", 1000))
	env.provider.listErr = errors.New("quota exhausted")

	_, err := env.uc.SyncUser(context.Background(), "u1")
	require.Error(t, err)

	acc, _ := env.accRepo.GetAccount("u1", "google")
	require.NotNil(t, acc)
	assert.Equal(t, int64(0), acc.LastEmailInternalDate)
	assert.Empty(t, env.appRepo.apps)
}

func TestSyncUserContinuesAfterFetchFailure(t *testing.T) {
	env := newTestEnv(appliedMessage("m1", 1000), rejectedMessage("m2", 2000))
	env.provider.getErrs["m1"] = errors.New("message gone")

	summary, err := env.uc.SyncUser(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.ReasonCounts[ReasonFetchError])
	assert.Equal(t, 1, summary.Created)

	acc, _ := env.accRepo.GetAccount("u1", "google")
	assert.Equal(t, int64(2000), acc.LastEmailInternalDate)
}

func TestSyncUserSkipsNonJobButAdvancesWatermark(t *testing.T) {
	env := newTestEnv(plainTextMessage("m1", 500,
		"news@techsite.com", "Weekly newsletter", "Top stories this week."))

	summary, err := env.uc.SyncUser(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.ReasonCounts[ReasonNonJob])
	assert.Empty(t, env.appRepo.apps)
	assert.Empty(t, env.statRepo.records)

	acc, _ := env.accRepo.GetAccount("u1", "google")
	assert.Equal(t, int64(500), acc.LastEmailInternalDate)
}

func TestSyncUserSkipsLowConfidence(t *testing.T) {
	env := newTestEnv(plainTextMessage("m1", 700,
		"hr@initech.com", "Checking in", "Please join the interview."))

	summary, err := env.uc.SyncUser(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ReasonCounts[ReasonLowConfidence])
	assert.Empty(t, env.appRepo.apps)
}

func TestSyncUserHandlesLowercaseHeaderNames(t *testing.T) {
	msg := appliedMessage("m1", 1000)
	msg.Headers = []emaildomain.Header{
		{Name: "subject", Value: msg.GetHeader("Subject")},
		{Name: "FROM", Value: msg.GetHeader("From")},
	}
	env := newTestEnv(msg)

	summary, err := env.uc.SyncUser(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.ReasonCounts[ReasonNonJob])
	require.Len(t, env.appRepo.apps, 1)
	assert.Equal(t, "acme", env.appRepo.apps[0].Name)
}

func TestSyncUserCountsFailedAuditWriteAsSkip(t *testing.T) {
	env := newTestEnv(appliedMessage("m1", 1000))
	env.statRepo.createErr = errors.New("db down")

	summary, err := env.uc.SyncUser(context.Background(), "u1")
	require.NoError(t, err)

	// The application mutation commits, the dedupe marker does not: the
	// message counts as skipped and will be redelivered next cycle.
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.ReasonCounts[ReasonPersistError])
	assert.Empty(t, env.statRepo.records)
}

func TestSyncUserWithoutCredentials(t *testing.T) {
	env := newTestEnv()
	env.userRepo.users["u1"].AccessToken = ""

	_, err := env.uc.SyncUser(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNoMailAccount)
}

func TestFindMatchingApplication(t *testing.T) {
	env := newTestEnv()
	env.appRepo.apps = []*appdomain.Application{
		{ID: "a1", UserID: "u1", Name: "acme", Description: "Software Engineer"},
		{ID: "a2", UserID: "u1", Name: "globex", Description: "Data Analyst"},
		{ID: "a3", UserID: "other", Name: "acme", Description: "Software Engineer"},
	}

	tests := []struct {
		name        string
		companyHint string
		subject     string
		wantID      string
	}{
		{
			name:        "company hint substring match",
			companyHint: "acme",
			subject:     "irrelevant",
			wantID:      "a1",
		},
		{
			name:        "application name inside subject",
			companyHint: "",
			subject:     "Your Globex application",
			wantID:      "a2",
		},
		{
			name:        "first word of role inside subject",
			companyHint: "",
			subject:     "Software update from the team",
			wantID:      "a1",
		},
		{
			name:        "no match",
			companyHint: "hooli",
			subject:     "Welcome aboard",
			wantID:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := env.uc.findMatchingApplication("u1", tt.companyHint, tt.subject)
			require.NoError(t, err)
			if tt.wantID == "" {
				assert.Nil(t, app)
			} else {
				require.NotNil(t, app)
				assert.Equal(t, tt.wantID, app.ID)
			}
		})
	}
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 200))

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, snippet(string(long), 200), 200)

	// 100 three-byte runes: byte 200 falls mid-rune, so the cut backs up
	// to the previous boundary and the result stays valid UTF-8.
	multibyte := strings.Repeat("€", 100)
	got := snippet(multibyte, 200)
	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, 198)
}
