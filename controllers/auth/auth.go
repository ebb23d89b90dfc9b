package authControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bananina/storefront-api/apperr"
	"github.com/bananina/storefront-api/config"
	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/respond"
	"github.com/bananina/storefront-api/session"
	"github.com/bananina/storefront-api/validate"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// invalidCredentials is shared by the unknown-email and wrong-password
// paths so the two are indistinguishable to a caller.
var invalidCredentials = apperr.New(apperr.Validation, "Invalid credentials")

// Login establishes a session from email + password.
// POST /api/v1/auth/login
func Login(db *gorm.DB, store session.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.AuthErr(c, validate.ErrInvalidJSON)
			return
		}

		if err := validate.Fields(
			validate.Field{Name: "email", Value: req.Email, Checks: []validate.CheckFunc{validate.Required, validate.Email}},
			validate.Field{Name: "password", Value: req.Password, Checks: []validate.CheckFunc{validate.Required}},
		); err != nil {
			respond.AuthErr(c, err)
			return
		}

		var user models.User
		err := db.Preload("Roles").Where("email = ?", req.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respond.AuthErr(c, invalidCredentials)
			return
		}
		if err != nil {
			respond.AuthErr(c, apperr.Wrap(apperr.Storage, "login lookup failed", err))
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			respond.AuthErr(c, invalidCredentials)
			return
		}

		if _, err := establishSession(c, store, cfg, &user); err != nil {
			respond.AuthErr(c, apperr.Wrap(apperr.Storage, "failed to establish session", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"user": gin.H{
				"id":        user.ID,
				"email":     user.Email,
				"full_name": user.FullName,
				"roles":     user.RoleNames(),
				"is_admin":  user.IsAdmin(),
			},
		})
	}
}

// Register creates the user and its default customer role in one
// transaction, then establishes a session shaped exactly like login's.
// POST /api/v1/auth/register
func Register(db *gorm.DB, store session.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.AuthErr(c, validate.ErrInvalidJSON)
			return
		}

		// Presence of every field is checked before any format rule, so
		// a request missing one field and malforming another reports the
		// missing one.
		if err := validate.Fields(
			validate.Field{Name: "username", Value: req.Username, Checks: []validate.CheckFunc{validate.Required}},
			validate.Field{Name: "email", Value: req.Email, Checks: []validate.CheckFunc{validate.Required}},
			validate.Field{Name: "password", Value: req.Password, Checks: []validate.CheckFunc{validate.Required}},
			validate.Field{Name: "full_name", Value: req.FullName, Checks: []validate.CheckFunc{validate.Required}},
			validate.Field{Name: "phone", Value: req.Phone, Checks: []validate.CheckFunc{validate.Required}},
			validate.Field{Name: "email", Value: req.Email, Checks: []validate.CheckFunc{validate.Email}},
			validate.Field{Name: "password", Value: req.Password, Checks: []validate.CheckFunc{validate.Password}},
			validate.Field{Name: "phone", Value: req.Phone, Checks: []validate.CheckFunc{validate.Phone}},
			validate.Field{Name: "username", Value: req.Username, Checks: []validate.CheckFunc{validate.Username}},
		); err != nil {
			respond.AuthErr(c, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respond.AuthErr(c, apperr.Wrap(apperr.Storage, "failed to hash password", err))
			return
		}

		user := models.User{
			Username: req.Username,
			Email:    req.Email,
			Password: string(hash),
			FullName: req.FullName,
			Phone:    req.Phone,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			// Attempt the insert and let the unique constraints arbitrate
			// concurrent registrations. A conflict aborts the whole
			// transaction; the duplicate field is named by a re-read
			// after rollback.
			if err := tx.Create(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				return apperr.Wrap(apperr.Storage, "failed to create user", err)
			}

			// Get-or-create via ON CONFLICT DO NOTHING. Catching the
			// unique violation instead would leave the transaction
			// aborted on Postgres.
			role := models.Role{Name: models.RoleCustomer}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&role).Error; err != nil {
				return apperr.Wrap(apperr.Storage, "failed to create customer role", err)
			}
			if role.ID == 0 {
				if err := tx.Where("name = ?", models.RoleCustomer).First(&role).Error; err != nil {
					return apperr.Wrap(apperr.Storage, "failed to look up customer role", err)
				}
			}

			if err := tx.Model(&user).Association("Roles").Append(&role); err != nil {
				return apperr.Wrap(apperr.Storage, "failed to assign customer role", err)
			}
			return nil
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respond.AuthErr(c, duplicateField(db, req.Email, req.Username))
			return
		}
		if err != nil {
			respond.AuthErr(c, err)
			return
		}

		user.Roles = []models.Role{{Name: models.RoleCustomer}}
		if _, err := establishSession(c, store, cfg, &user); err != nil {
			respond.AuthErr(c, apperr.Wrap(apperr.Storage, "failed to establish session", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Registration successful",
			"user": gin.H{
				"id":        user.ID,
				"username":  user.Username,
				"email":     user.Email,
				"full_name": user.FullName,
				"roles":     []string{models.RoleCustomer},
				"is_admin":  false,
			},
		})
	}
}

// Logout destroys the server-side session and clears the cookie.
// POST /api/v1/auth/logout
func Logout(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := middleware.TokenFromRequest(c); token != "" {
			if err := store.Destroy(c.Request.Context(), token); err != nil {
				respond.AuthErr(c, apperr.Wrap(apperr.Storage, "failed to destroy session", err))
				return
			}
		}
		c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
	}
}

// duplicateField names which unique field collided after an insert
// conflict, outside the aborted transaction.
func duplicateField(db *gorm.DB, email, username string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err == nil && count > 0 {
		return apperr.New(apperr.Conflict, "Email already exists")
	}
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err == nil && count > 0 {
		return apperr.New(apperr.Conflict, "Username already exists")
	}
	return apperr.New(apperr.Conflict, "Email already exists")
}

func establishSession(c *gin.Context, store session.Store, cfg config.Config, user *models.User) (string, error) {
	sess := &session.Session{
		UserID:  user.ID,
		Email:   user.Email,
		Roles:   user.RoleNames(),
		IsAdmin: user.IsAdmin(),
	}
	token := session.NewToken()
	if err := store.Set(c.Request.Context(), token, sess, cfg.SessionTTL); err != nil {
		return "", err
	}
	c.SetCookie(session.CookieName, token, int(cfg.SessionTTL.Seconds()), "/", "", false, true)
	return token, nil
}
