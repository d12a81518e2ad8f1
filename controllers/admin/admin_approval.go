package adminController

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/logging"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRevoker ends every session of a user. *auth.Service satisfies it.
type SessionRevoker interface {
	RevokeAll(ctx context.Context, userID uint) error
}

var errSelfAction = errors.New("admins cannot change their own account")

func listUsers(db *gorm.DB, scope func(*gorm.DB) *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		users := []models.User{}
		if err := scope(db.WithContext(c.Request.Context())).Order("created_at DESC").Find(&users).Error; err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// ListPendingUsers returns registrations awaiting a decision.
func ListPendingUsers(db *gorm.DB) gin.HandlerFunc {
	return listUsers(db, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", models.StatusPending)
	})
}

func ListApprovedTraders(db *gorm.DB) gin.HandlerFunc {
	return listUsers(db, func(q *gorm.DB) *gorm.DB {
		return q.Where("role = ? AND status = ?", models.RoleTrader, models.StatusApproved)
	})
}

func ListBannedUsers(db *gorm.DB) gin.HandlerFunc {
	return listUsers(db, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", models.StatusBanned)
	})
}

func ApproveUser(db *gorm.DB) gin.HandlerFunc {
	return updateUser(db, nil, "approve", "status", models.StatusApproved)
}

func RejectUser(db *gorm.DB) gin.HandlerFunc {
	return updateUser(db, nil, "reject", "status", models.StatusRejected)
}

// BanUser blocks the account and signs it out everywhere.
func BanUser(db *gorm.DB, sessions SessionRevoker) gin.HandlerFunc {
	return updateUser(db, sessions, "ban", "status", models.StatusBanned)
}

func UnbanUser(db *gorm.DB) gin.HandlerFunc {
	return updateUser(db, nil, "unban", "status", models.StatusApproved)
}

func PromoteUser(db *gorm.DB) gin.HandlerFunc {
	return updateUser(db, nil, "promote", "role", models.RoleAdmin)
}

// SetNickname stores the admin-only label shown next to a trader.
func SetNickname(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Nickname string `json:"nickname"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		update(c, db, nil, "nickname", false, "admin_nickname", strings.TrimSpace(req.Nickname))
	}
}

func updateUser(db *gorm.DB, sessions SessionRevoker, action, column string, value interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		update(c, db, sessions, action, true, column, value)
	}
}

// update writes a single column so concurrent actions on other columns
// are never overwritten.
func update(c *gin.Context, db *gorm.DB, sessions SessionRevoker, action string, guardSelf bool, column string, value interface{}) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	admin := middleware.CurrentUser(c)
	if guardSelf && admin != nil && admin.ID == uint(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errSelfAction.Error()})
		return
	}

	ctx := c.Request.Context()
	var user models.User
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update(column, value).Error; err != nil {
			return err
		}
		return tx.First(&user, user.ID).Error
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	if sessions != nil {
		if err := sessions.RevokeAll(ctx, user.ID); err != nil {
			logging.Failure("revoke_sessions", err, logging.Fields{UserID: user.ID})
		}
	}

	fields := logging.Fields{UserID: user.ID, Event: "user." + action, Status: string(user.Status)}
	if admin != nil {
		fields.Message = "by admin " + strconv.FormatUint(uint64(admin.ID), 10)
	}
	logging.Log(fields)
	c.JSON(http.StatusOK, user)
}
