package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/markbates/goth"
	gothfiber "github.com/shareed2k/goth_fiber"
	"gorm.io/gorm"

	"github.com/ManuelReschke/BlockHolder/app/models"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/database"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/session"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/usercontext"
)

// HandleOAuthCallback completes the provider flow and logs the user in
func HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		deps.Log.Warn().Err(err).Msg("oauth callback failed")
		return flashError(c, "Sign-in failed. Please try again.").Redirect("/pricing", fiber.StatusSeeOther)
	}

	appUser, err := linkProviderUser(database.GetDB(), u)
	if err != nil {
		deps.Log.Error().Err(err).Str("provider", u.Provider).Msg("link oauth user")
		return c.Status(fiber.StatusInternalServerError).SendString("sign-in failed")
	}
	if !appUser.IsActive() {
		return flashError(c, "Your account is disabled.").Redirect("/pricing", fiber.StatusSeeOther)
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("session init failed")
	}
	sess.Set(usercontext.KeyUserID, appUser.ID)
	sess.Set(usercontext.KeyPublicID, appUser.PublicID)
	sess.Set(usercontext.KeyFirstName, appUser.DisplayName())
	sess.Set(usercontext.KeyPlan, appUser.Plan)
	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("session save failed")
	}

	_ = database.GetDB().Model(appUser).UpdateColumn("last_login_at", time.Now()).Error

	return c.Redirect("/pricing", fiber.StatusSeeOther)
}

// linkProviderUser finds the user behind a provider identity, linking by
// email or creating a new user on first sign-in.
func linkProviderUser(db *gorm.DB, u goth.User) (*models.User, error) {
	var pa models.ProviderAccount
	res := db.Where("provider = ? AND provider_user_id = ?", u.Provider, u.UserID).First(&pa)

	switch {
	case res.Error == nil:
		pa.ExpiresAt = expiresAt(u)
		if err := db.Save(&pa).Error; err != nil {
			return nil, fmt.Errorf("update provider account: %w", err)
		}
		var appUser models.User
		if err := db.First(&appUser, pa.UserID).Error; err != nil {
			return nil, fmt.Errorf("load linked user: %w", err)
		}
		return &appUser, nil
	case !errors.Is(res.Error, gorm.ErrRecordNotFound):
		return nil, res.Error
	}

	var appUser models.User
	if u.Email != "" {
		_ = db.Where("email = ?", u.Email).First(&appUser).Error
	}
	if appUser.ID == 0 {
		email := u.Email
		if email == "" {
			// Keeps the unique email index satisfied for providers without email scope.
			email = fmt.Sprintf("%s_%s@%s.oauth.local", u.Provider, u.UserID, u.Provider)
		}
		created, err := models.NewOAuthUser(u.FirstName, firstNonEmpty(u.Name, u.NickName, u.Email, "User"), email, u.AvatarURL)
		if err != nil {
			return nil, fmt.Errorf("build user: %w", err)
		}
		if err := db.Create(created).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		appUser = *created
	}

	pa = models.ProviderAccount{
		UserID:         appUser.ID,
		Provider:       u.Provider,
		ProviderUserID: u.UserID,
		ExpiresAt:      expiresAt(u),
	}
	if err := db.Create(&pa).Error; err != nil {
		return nil, fmt.Errorf("link provider: %w", err)
	}
	return &appUser, nil
}

// HandleLogout ends the session and drops the user's dashboard state.
func HandleLogout(c *fiber.Ctx) error {
	if id := usercontext.GetUserID(c); id != 0 && deps.Dashboards != nil {
		deps.Dashboards.Remove(id)
	}
	if err := session.Destroy(c); err != nil {
		deps.Log.Warn().Err(err).Msg("destroy session")
	}
	return flashSuccess(c, "You have been signed out.").Redirect("/", fiber.StatusSeeOther)
}

func expiresAt(u goth.User) *time.Time {
	if u.ExpiresAt.IsZero() {
		return nil
	}
	t := u.ExpiresAt
	return &t
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
