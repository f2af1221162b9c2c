package repo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/vkhromov/retail_orders/internal/hash"
	"github.com/vkhromov/retail_orders/internal/models"
)

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// CreateUserParams carries the fields a caller may set at registration.
// IsStaff/IsSuperuser are pointers so an explicit false can be told apart
// from "not given".
type CreateUserParams struct {
	Email       string
	Password    string
	Username    string
	FirstName   string
	LastName    string
	Company     string
	Position    string
	Type        string
	IsStaff     *bool
	IsSuperuser *bool
}

// NormalizeEmail lowercases the domain part of the address.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func (r *GormRepo) createUser(ctx context.Context, p CreateUserParams, isStaff, isSuperuser bool) (*models.User, error) {
	if p.Email == "" {
		return nil, fmt.Errorf("%w: the given email must be set", ErrValidation)
	}
	if p.Username != "" && !usernameRe.MatchString(p.Username) {
		return nil, fmt.Errorf("%w: username may contain only letters, digits and @/./+/-/_", ErrValidation)
	}

	pwHash, err := hash.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	userType := p.Type
	if userType == "" {
		userType = models.UserTypeBuyer
	}

	user := models.User{
		Email:        NormalizeEmail(p.Email),
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Company:      p.Company,
		Position:     p.Position,
		PasswordHash: pwHash,
		Type:         userType,
		IsActive:     false,
		IsStaff:      isStaff,
		IsSuperuser:  isSuperuser,
	}

	if err := r.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email %s already registered", ErrConflict, user.Email)
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser registers a regular account: inactive, non-staff unless the
// caller says otherwise.
func (r *GormRepo) CreateUser(ctx context.Context, p CreateUserParams) (*models.User, error) {
	isStaff := false
	if p.IsStaff != nil {
		isStaff = *p.IsStaff
	}
	isSuperuser := false
	if p.IsSuperuser != nil {
		isSuperuser = *p.IsSuperuser
	}
	return r.createUser(ctx, p, isStaff, isSuperuser)
}

// CreateSuperuser forces staff and superuser flags and refuses explicit
// overrides to false.
func (r *GormRepo) CreateSuperuser(ctx context.Context, p CreateUserParams) (*models.User, error) {
	if p.IsStaff != nil && !*p.IsStaff {
		return nil, fmt.Errorf("%w: superuser must have is_staff=true", ErrValidation)
	}
	if p.IsSuperuser != nil && !*p.IsSuperuser {
		return nil, fmt.Errorf("%w: superuser must have is_superuser=true", ErrValidation)
	}
	return r.createUser(ctx, p, true, true)
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies profile edits. Only non-zero fields are written.
func (r *GormRepo) UpdateUser(ctx context.Context, id uint, updates map[string]any) (*models.User, error) {
	if email, ok := updates["email"].(string); ok {
		if email == "" {
			return nil, fmt.Errorf("%w: the given email must be set", ErrValidation)
		}
		updates["email"] = NormalizeEmail(email)
	}
	if username, ok := updates["username"].(string); ok && username != "" && !usernameRe.MatchString(username) {
		return nil, fmt.Errorf("%w: username may contain only letters, digits and @/./+/-/_", ErrValidation)
	}

	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, id)
}

func (r *GormRepo) SetUserPassword(ctx context.Context, id uint, password string) error {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("password_hash", pwHash).Error
}
