package notify

import (
	"context"
	"fmt"

	"github.com/vkhromov/retail_orders/internal/logging"
	"github.com/vkhromov/retail_orders/internal/mail"
	"github.com/vkhromov/retail_orders/internal/models"
	"github.com/vkhromov/retail_orders/internal/repo"
)

const (
	TopicUserEvents  = "user_events"
	TopicOrderEvents = "order_events"
)

const (
	TaskNewUserRegistered = "new_user_registered"
	TaskNewOrder          = "new_order"
)

// Task is the payload enqueued for the background worker. The order task
// carries no hint of which status change happened; the notice text is fixed.
type Task struct {
	Type   string `json:"type"`
	UserID uint   `json:"user_id"`
}

// Notifier sends the three lifecycle e-mails. All sends are fire-and-forget:
// a transport error is returned to the invoker and nothing is rolled back.
type Notifier struct {
	Repo   *repo.GormRepo
	Mailer mail.Mailer
}

// PasswordResetTokenCreated delivers a freshly created reset token. Runs
// synchronously inline with the triggering request.
func (n *Notifier) PasswordResetTokenCreated(ctx context.Context, user *models.User, token *models.ConfirmEmailToken) error {
	subject := fmt.Sprintf("Password Reset Token for %s %s", user.FirstName, user.LastName)
	return n.Mailer.Send(ctx, user.Email, subject, token.Key)
}

// NewUserRegistered delivers the registration-confirmation token. The token
// is created on demand; a second run reuses the same row.
func (n *Notifier) NewUserRegistered(ctx context.Context, userID uint) error {
	token, err := n.Repo.GetOrCreateConfirmToken(ctx, userID)
	if err != nil {
		return err
	}

	user, err := n.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info("sending confirmation mail", "user_id", userID)
	subject := fmt.Sprintf("Password Reset Token for %s", user.Email)
	return n.Mailer.Send(ctx, user.Email, subject, token.Key)
}

// NewOrder notifies the order owner about a status change. The body is a
// fixed string regardless of which status the order moved to.
func (n *Notifier) NewOrder(ctx context.Context, userID uint) error {
	user, err := n.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info("sending order status mail", "user_id", userID)
	return n.Mailer.Send(ctx, user.Email, "Обновление статуса заказа", "Заказ сформирован")
}
