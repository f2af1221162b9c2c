package notify

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vkhromov/retail_orders/internal/models"
	"github.com/vkhromov/retail_orders/internal/repo"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func newTestNotifier(t *testing.T) (*Notifier, *fakeMailer, *repo.GormRepo) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	r := &repo.GormRepo{DB: db}
	mailer := &fakeMailer{}
	return &Notifier{Repo: r, Mailer: mailer}, mailer, r
}

func TestNewOrder_SendsFixedNotice(t *testing.T) {
	t.Parallel()

	n, mailer, r := newTestNotifier(t)
	ctx := context.Background()

	user, err := r.CreateUser(ctx, repo.CreateUserParams{
		Email:    "buyer@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	require.NoError(t, n.NewOrder(ctx, user.ID))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "buyer@example.com", mailer.sent[0].To)
	assert.Equal(t, "Обновление статуса заказа", mailer.sent[0].Subject)
	assert.Equal(t, "Заказ сформирован", mailer.sent[0].Body)
}

func TestNewOrder_UnknownUser(t *testing.T) {
	t.Parallel()

	n, mailer, _ := newTestNotifier(t)
	err := n.NewOrder(context.Background(), 42)
	require.Error(t, err)
	assert.Empty(t, mailer.sent)
}

func TestNewUserRegistered_SendsTokenKey(t *testing.T) {
	t.Parallel()

	n, mailer, r := newTestNotifier(t)
	ctx := context.Background()

	user, err := r.CreateUser(ctx, repo.CreateUserParams{
		Email:    "fresh@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	require.NoError(t, n.NewUserRegistered(ctx, user.ID))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "fresh@example.com", mailer.sent[0].To)
	assert.Equal(t, "Password Reset Token for fresh@example.com", mailer.sent[0].Subject)
	require.NotEmpty(t, mailer.sent[0].Body)

	token, err := r.GetOrCreateConfirmToken(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, token.Key, mailer.sent[0].Body)

	// A repeated run reuses the same token row.
	require.NoError(t, n.NewUserRegistered(ctx, user.ID))
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, token.Key, mailer.sent[1].Body)
}

func TestPasswordResetTokenCreated_Subject(t *testing.T) {
	t.Parallel()

	n, mailer, r := newTestNotifier(t)
	ctx := context.Background()

	user, err := r.CreateUser(ctx, repo.CreateUserParams{
		Email:     "reset@example.com",
		Password:  "secret",
		FirstName: "Иван",
		LastName:  "Петров",
	})
	require.NoError(t, err)

	token, err := r.GetOrCreateConfirmToken(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, n.PasswordResetTokenCreated(ctx, user, token))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "reset@example.com", mailer.sent[0].To)
	assert.Equal(t, "Password Reset Token for Иван Петров", mailer.sent[0].Subject)
	assert.Equal(t, token.Key, mailer.sent[0].Body)
}

func TestMailFailurePropagates(t *testing.T) {
	t.Parallel()

	n, mailer, r := newTestNotifier(t)
	ctx := context.Background()
	mailer.err = context.DeadlineExceeded

	user, err := r.CreateUser(ctx, repo.CreateUserParams{
		Email:    "flaky@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	err = n.NewOrder(ctx, user.ID)
	require.Error(t, err)

	// No compensation: the token created for the confirmation path stays
	// persisted even though its mail failed.
	err = n.NewUserRegistered(ctx, user.ID)
	require.Error(t, err)
	token, tokenErr := r.GetOrCreateConfirmToken(ctx, user.ID)
	require.NoError(t, tokenErr)
	assert.NotEmpty(t, token.Key)
}
