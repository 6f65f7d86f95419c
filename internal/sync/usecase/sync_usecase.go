package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	appdomain "jobtrail-backend/internal/application/domain"
	apprepo "jobtrail-backend/internal/application/repository"
	authdomain "jobtrail-backend/internal/auth/domain"
	authrepo "jobtrail-backend/internal/auth/repository"
	"jobtrail-backend/internal/email/classifier"
	emaildomain "jobtrail-backend/internal/email/domain"
	"jobtrail-backend/internal/email/parser"
	"jobtrail-backend/pkg/config"
	"jobtrail-backend/pkg/crypto"
	"jobtrail-backend/pkg/fcm"
	"jobtrail-backend/pkg/imap"

	"golang.org/x/oauth2"
)

const (
	// Messages scoring below this confidence are not acted on.
	confidenceThreshold = 0.5
	// Listing retries for transient provider errors.
	retryAttempts  = 3
	retryBaseDelay = time.Second
	// Audit snippet length, bytes.
	snippetLength = 200
)

// ErrNoMailAccount is returned when a sync is triggered for a user with no
// usable provider credentials.
var ErrNoMailAccount = errors.New("no mail account linked")

// syncUsecase implements SyncUsecase interface
type syncUsecase struct {
	userRepo     authrepo.UserRepository
	fcmRepo      authrepo.FCMTokenRepository
	appRepo      apprepo.ApplicationRepository
	statusRepo   apprepo.StatusUpdateRepository
	accountRepo  apprepo.EmailAccountRepository
	mailProvider emaildomain.MailProvider // Gmail provider
	imapProvider *imap.Service            // IMAP provider
	fcmClient    *fcm.Client
	config       *config.Config

	// Per-user serialization: the matcher's read-then-write sequence is
	// not transactional, so concurrent cycles for one user would race and
	// create duplicate applications.
	userLocksMu sync.Mutex
	userLocks   map[string]*sync.Mutex
}

// NewSyncUsecase creates a new instance of syncUsecase
func NewSyncUsecase(userRepo authrepo.UserRepository, fcmRepo authrepo.FCMTokenRepository, appRepo apprepo.ApplicationRepository, statusRepo apprepo.StatusUpdateRepository, accountRepo apprepo.EmailAccountRepository, mailProvider emaildomain.MailProvider, imapProvider *imap.Service, fcmClient *fcm.Client, cfg *config.Config) SyncUsecase {
	return &syncUsecase{
		userRepo:     userRepo,
		fcmRepo:      fcmRepo,
		appRepo:      appRepo,
		statusRepo:   statusRepo,
		accountRepo:  accountRepo,
		mailProvider: mailProvider,
		imapProvider: imapProvider,
		fcmClient:    fcmClient,
		config:       cfg,
		userLocks:    make(map[string]*sync.Mutex),
	}
}

func (u *syncUsecase) userLock(userID string) *sync.Mutex {
	u.userLocksMu.Lock()
	defer u.userLocksMu.Unlock()
	mu, ok := u.userLocks[userID]
	if !ok {
		mu = &sync.Mutex{}
		u.userLocks[userID] = mu
	}
	return mu
}

// SyncUser runs one end-to-end poll cycle for the user.
func (u *syncUsecase) SyncUser(ctx context.Context, userID string) (*SyncSummary, error) {
	mu := u.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	listMessages, getMessage, provider, err := u.providerFuncs(user)
	if err != nil {
		return nil, err
	}

	account, err := u.accountRepo.EnsureAccount(userID, provider)
	if err != nil {
		return nil, err
	}

	// A failure here aborts the whole cycle: the watermark is untouched,
	// so a retry sees the same window.
	var refs []emaildomain.MessageRef
	err = withRetry(retryAttempts, retryBaseDelay, func() error {
		var listErr error
		refs, listErr = listMessages(ctx, account.LastEmailInternalDate, u.maxResults())
		return listErr
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %w", err)
	}

	summary := &SyncSummary{Total: len(refs), ReasonCounts: map[string]int{}}
	if len(refs) == 0 {
		log.Printf("[Sync] No new emails to process for user %s", userID)
		return summary, nil
	}

	var newestEmailID string
	var newestInternalDate int64

	for _, ref := range refs {
		// Abortable between messages; each message's effects commit
		// independently.
		if ctx.Err() != nil {
			break
		}

		var msg *emaildomain.InboxMessage
		err := withRetry(retryAttempts, retryBaseDelay, func() error {
			var getErr error
			msg, getErr = getMessage(ctx, ref.ID)
			return getErr
		})
		if err != nil {
			log.Printf("[Sync] Failed to fetch message %s: %v", ref.ID, err)
			summary.Skipped++
			summary.ReasonCounts[ReasonFetchError]++
			continue
		}

		summary.Processed++
		if msg.InternalDate > newestInternalDate {
			newestInternalDate = msg.InternalDate
			newestEmailID = msg.ID
		}

		u.processMessage(userID, msg, summary)
	}

	// Advance the watermark to the newest internalDate observed in the
	// batch, whether or not that message changed any status.
	if summary.Processed > 0 && newestInternalDate > account.LastEmailInternalDate {
		if err := u.accountRepo.SetWatermark(userID, provider, newestEmailID, newestInternalDate); err != nil {
			log.Printf("[Sync] Failed to advance watermark for user %s: %v", userID, err)
		}
	}

	log.Printf("[Sync] Cycle complete for user %s: processed=%d created=%d updated=%d skipped=%d reasons=%v",
		userID, summary.Processed, summary.Created, summary.Updated, summary.Skipped, summary.ReasonCounts)
	return summary, nil
}

// processMessage runs the per-message pipeline: extract, filter, classify,
// extract details, match, decide, persist. Gates are checked in a fixed
// order and the first applicable skip reason wins.
func (u *syncUsecase) processMessage(userID string, msg *emaildomain.InboxMessage, summary *SyncSummary) {
	skip := func(reason string) {
		summary.Skipped++
		summary.ReasonCounts[reason]++
	}

	subject := msg.GetHeader("Subject")
	from := msg.GetHeader("From")
	bodyText := parser.ExtractBodyText(msg.Payload)
	attachments := parser.ExtractAttachmentTypes(msg.Payload)
	domain := classifier.DomainFromHeader(from)

	if !classifier.IsLikelyJobEmail(subject, bodyText, from) {
		skip(ReasonNonJob)
		return
	}
	if bodyText == "" {
		skip(ReasonMissingBody)
		return
	}

	processed, err := u.statusRepo.ExistsForEmail(userID, msg.ID)
	if err != nil {
		log.Printf("[Sync] Duplicate check failed for message %s: %v", msg.ID, err)
		skip(ReasonPersistError)
		return
	}
	if processed {
		skip(ReasonDuplicate)
		return
	}

	result := classifier.ScoreEmailStatus(subject+" "+bodyText, domain, attachments)
	if result.Status == "" || result.Confidence < confidenceThreshold {
		skip(ReasonLowConfidence)
		return
	}

	details := classifier.ExtractDetails(subject, bodyText, from)
	interview := classifier.ExtractInterviewDateTime(bodyText)

	app, err := u.findMatchingApplication(userID, details.Company, subject)
	if err != nil {
		log.Printf("[Sync] Application lookup failed for message %s: %v", msg.ID, err)
		skip(ReasonPersistError)
		return
	}

	notifyTitle := ""
	if app == nil {
		company := details.Company
		if company == "" {
			company = "Unknown Company"
		}
		role := details.Role
		if role == "" {
			role = subject
		}
		app = &appdomain.Application{
			UserID:        userID,
			Name:          company,
			Description:   role,
			Status:        result.Status,
			InterviewDate: interview.Date,
			InterviewTime: interview.Time,
		}
		if err := u.appRepo.Create(app); err != nil {
			log.Printf("[Sync] Failed to create application for message %s: %v", msg.ID, err)
			skip(ReasonPersistError)
			return
		}
		summary.Created++
		notifyTitle = fmt.Sprintf("New application tracked: %s", app.Name)
		log.Printf("[Sync] Created application %s (%s / %s) with status %s", app.ID, app.Name, app.Description, app.Status)
	} else if ShouldUpdateStatus(app.Status, result.Status, result.Confidence) {
		app.Status = result.Status
		// A later message without an interview slot never clears a stored
		// one.
		if interview.Date != "" {
			app.InterviewDate = interview.Date
		}
		if interview.Time != "" {
			app.InterviewTime = interview.Time
		}
		if err := u.appRepo.Update(app); err != nil {
			log.Printf("[Sync] Failed to update application %s: %v", app.ID, err)
			skip(ReasonPersistError)
			return
		}
		summary.Updated++
		notifyTitle = fmt.Sprintf("%s: now %s", app.Name, app.Status)
		log.Printf("[Sync] Updated application %s to status %s", app.ID, app.Status)
	}

	record := &appdomain.StatusUpdateRecord{
		UserID:        userID,
		ApplicationID: app.ID,
		Status:        result.Status,
		Source:        "email",
		EmailID:       msg.ID,
		Subject:       subject,
		BodySnippet:   snippet(bodyText, snippetLength),
		OccurredAt:    time.UnixMilli(msg.InternalDate),
	}
	// The audit record is also the dedupe marker: if this write fails the
	// message is redelivered next cycle even though the application
	// mutation above already committed. Reprocessing is harmless because
	// the transition policy re-proposes the same status.
	if err := u.statusRepo.Create(record); err != nil {
		log.Printf("[Sync] Failed to record status update for message %s: %v", msg.ID, err)
		skip(ReasonPersistError)
	}

	if notifyTitle != "" {
		u.notifyDevices(userID, notifyTitle, app)
	}
}

type listFunc func(ctx context.Context, afterInternalDate, maxResults int64) ([]emaildomain.MessageRef, error)
type getFunc func(ctx context.Context, id string) (*emaildomain.InboxMessage, error)

// providerFuncs resolves the user's mail provider into list/get closures
// so the cycle itself is provider-agnostic. Missing credentials surface
// immediately; there is nothing to retry.
func (u *syncUsecase) providerFuncs(user *authdomain.User) (listFunc, getFunc, string, error) {
	if user.Provider == "imap" {
		if u.imapProvider == nil || user.ImapServer == "" {
			return nil, nil, "", ErrNoMailAccount
		}
		password, err := crypto.Decrypt(user.ImapPassword, u.config.EncryptionKey)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to decrypt IMAP password: %w", err)
		}
		list := func(ctx context.Context, after, max int64) ([]emaildomain.MessageRef, error) {
			return u.imapProvider.ListMessages(ctx, user.ImapServer, user.ImapPort, user.Email, password, after, max)
		}
		get := func(ctx context.Context, id string) (*emaildomain.InboxMessage, error) {
			return u.imapProvider.GetMessage(ctx, user.ImapServer, user.ImapPort, user.Email, password, id)
		}
		return list, get, "imap", nil
	}

	if u.mailProvider == nil || user.AccessToken == "" {
		return nil, nil, "", ErrNoMailAccount
	}
	callback := u.makeTokenUpdateCallback(user.ID)
	list := func(ctx context.Context, after, max int64) ([]emaildomain.MessageRef, error) {
		return u.mailProvider.ListMessages(ctx, user.AccessToken, user.RefreshToken, after, max, callback)
	}
	get := func(ctx context.Context, id string) (*emaildomain.InboxMessage, error) {
		return u.mailProvider.GetMessage(ctx, user.AccessToken, user.RefreshToken, id, callback)
	}
	return list, get, "google", nil
}

func (u *syncUsecase) makeTokenUpdateCallback(userID string) emaildomain.TokenUpdateFunc {
	return func(token *oauth2.Token) error {
		user, err := u.userRepo.FindByID(userID)
		if err != nil {
			return err
		}
		if user == nil {
			return nil
		}

		user.AccessToken = token.AccessToken
		if token.RefreshToken != "" {
			user.RefreshToken = token.RefreshToken
		}
		user.TokenExpiry = token.Expiry

		return u.userRepo.Update(user)
	}
}

func (u *syncUsecase) maxResults() int64 {
	if u.config != nil && u.config.SyncMaxResults > 0 {
		return u.config.SyncMaxResults
	}
	return 200
}

// notifyDevices pushes a status notification to the user's registered
// devices. Best-effort: failures are logged, never surfaced.
func (u *syncUsecase) notifyDevices(userID, title string, app *appdomain.Application) {
	if u.fcmClient == nil || u.fcmRepo == nil {
		return
	}

	tokens, err := u.fcmRepo.GetTokensByUserID(userID)
	if err != nil {
		log.Printf("[Sync] Failed to load FCM tokens for user %s: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	failed, err := u.fcmClient.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title: title,
		Body:  fmt.Sprintf("%s - %s", app.Description, app.Status),
		Data: map[string]string{
			"application_id": app.ID,
			"status":         app.Status,
		},
	})
	if err != nil {
		log.Printf("[Sync] FCM send failed for user %s: %v", userID, err)
		return
	}
	for _, token := range failed {
		if err := u.fcmRepo.DeleteToken(token); err != nil {
			log.Printf("[Sync] Failed to delete stale FCM token: %v", err)
		}
	}
}

func (u *syncUsecase) ConnectedProviders(userID string) ([]string, error) {
	return u.accountRepo.ListProviders(userID)
}

func (u *syncUsecase) DisconnectGoogle(userID string) error {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user != nil {
		user.AccessToken = ""
		user.RefreshToken = ""
		user.TokenExpiry = time.Time{}
		if err := u.userRepo.Update(user); err != nil {
			return err
		}
	}
	return u.accountRepo.DeleteAccount(userID, "google")
}

// mailboxWatcher is the optional push-notification surface of a provider.
// Only the Gmail provider implements it.
type mailboxWatcher interface {
	Watch(ctx context.Context, accessToken, refreshToken, topicName string, onTokenRefresh emaildomain.TokenUpdateFunc) error
}

func (u *syncUsecase) EnableWatch(ctx context.Context, userID string) error {
	watcher, ok := u.mailProvider.(mailboxWatcher)
	if !ok {
		return fmt.Errorf("mail provider does not support push notifications")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil || user.AccessToken == "" {
		return ErrNoMailAccount
	}

	topic := fmt.Sprintf("projects/%s/topics/%s", u.config.GoogleProjectID, u.config.GooglePubSubTopic)
	return watcher.Watch(ctx, user.AccessToken, user.RefreshToken, topic, u.makeTokenUpdateCallback(user.ID))
}

// withRetry runs fn up to attempts times with exponential backoff, for
// transient provider errors.
func withRetry(attempts int, baseDelay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(baseDelay << i)
		}
	}
	return err
}

// snippet truncates to at most limit bytes, backing up to a rune boundary
// so the stored text stays valid UTF-8.
func snippet(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
