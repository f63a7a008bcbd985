package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"echoboard/internal/models"
	"echoboard/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResendCooldown 两次验证邮件之间的最小间隔
const ResendCooldown = time.Hour

type AccountService struct {
	db   *gorm.DB
	mail *MailService
}

func NewAccountService(db *gorm.DB, mail *MailService) *AccountService {
	return &AccountService{db: db, mail: mail}
}

type SignUpForm struct {
	LoginID         string
	Password        string
	PasswordConfirm string
	Nickname        string
	Email           string
}

func validateSignUp(form SignUpForm) error {
	if form.LoginID == "" {
		return ValidationError{Field: "login_id", Reason: "required"}
	}
	if form.Nickname == "" {
		return ValidationError{Field: "nickname", Reason: "required"}
	}
	if !strings.Contains(form.Email, "@") {
		return ValidationError{Field: "email", Reason: "malformed address"}
	}
	if len(form.Password) < 8 {
		return ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	if form.Password != form.PasswordConfirm {
		return ValidationError{Field: "password_confirm", Reason: "passwords do not match"}
	}
	return nil
}

// Register 创建未验证账号：哈希密码、签发验证令牌、发送验证邮件。
// 登录名/昵称/邮箱任一重复返回 DuplicateError。
// 并发下先查后插可能双双通过，唯一索引兜底，冲突同样映射为 DuplicateError。
func (s *AccountService) Register(form SignUpForm) (*models.Account, error) {
	if err := validateSignUp(form); err != nil {
		return nil, err
	}
	if field, taken := s.takenField(form.LoginID, form.Nickname, form.Email, 0); taken {
		return nil, DuplicateError{Field: field}
	}

	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		return nil, err
	}

	token, issuedAt := IssueEmailCheckToken()
	account := models.Account{
		LoginID:                    form.LoginID,
		Nickname:                   form.Nickname,
		Email:                      form.Email,
		Password:                   hash,
		EmailCheckToken:            token,
		EmailCheckTokenIssuedAt:    &issuedAt,
		CommentNotificationEnabled: true,
	}

	if err := s.db.Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			field, _ := s.takenField(form.LoginID, form.Nickname, form.Email, 0)
			return nil, DuplicateError{Field: field}
		}
		return nil, err
	}

	s.mail.SendConfirmEmail(account.Email, token)
	return &account, nil
}

// takenField 返回第一个已被占用的唯一字段名。excludeID 用于改资料时跳过自己。
func (s *AccountService) takenField(loginID, nickname, email string, excludeID uint) (string, bool) {
	type pair struct {
		field string
		value string
	}
	for _, p := range []pair{{"login_id", loginID}, {"nickname", nickname}, {"email", email}} {
		if p.value == "" {
			continue
		}
		var count int64
		s.db.Model(&models.Account{}).
			Where(p.field+" = ? AND id != ?", p.value, excludeID).
			Count(&count)
		if count > 0 {
			return p.field, true
		}
	}
	return "email", false
}

// Login 按登录名查找并比对密码。不区分"用户不存在"与"密码错误"
func (s *AccountService) Login(loginID, password string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("login_id = ?", loginID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, account.Password) {
		return nil, ErrInvalidCredentials
	}
	return &account, nil
}

// VerifyEmail 用邮件里的令牌完成邮箱验证。
// 令牌必须与库中保存的完全一致（区分大小写）。
// JoinedAt 只在首次验证时写入；重复提交同一有效令牌不会重置它。
func (s *AccountService) VerifyEmail(token, email string) (*models.Account, error) {
	var account models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		if account.EmailCheckToken == "" || account.EmailCheckToken != token {
			return ErrTokenMismatch
		}

		updates := map[string]interface{}{"email_verified": true}
		if account.JoinedAt == nil {
			now := time.Now()
			updates["joined_at"] = now
			account.JoinedAt = &now
		}
		account.EmailVerified = true
		return tx.Model(&account).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ResendVerification 重发验证邮件，1 小时冷却。
// 冷却检查带行锁读：并发重发时后到的事务要等前一个提交，
// 重读到新的签发时间后撞上冷却。
func (s *AccountService) ResendVerification(account *models.Account) error {
	var token string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var fresh models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&fresh, account.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		if fresh.EmailCheckTokenIssuedAt != nil &&
			time.Since(*fresh.EmailCheckTokenIssuedAt) < ResendCooldown {
			return ErrCooldownActive
		}

		var issuedAt time.Time
		token, issuedAt = IssueEmailCheckToken()
		return tx.Model(&fresh).Updates(map[string]interface{}{
			"email_check_token":           token,
			"email_check_token_issued_at": issuedAt,
		}).Error
	})
	if err != nil {
		return err
	}

	account.EmailCheckToken = token
	s.mail.SendConfirmEmail(account.Email, token)
	return nil
}

// UpdateProfile 修改昵称和头像，昵称仍需全局唯一
func (s *AccountService) UpdateProfile(account *models.Account, nickname, avatar string) error {
	if nickname == "" {
		return ValidationError{Field: "nickname", Reason: "required"}
	}
	if field, taken := s.takenField("", nickname, "", account.ID); taken {
		return DuplicateError{Field: field}
	}

	err := s.db.Model(account).Updates(map[string]interface{}{
		"nickname": nickname,
		"avatar":   avatar,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return DuplicateError{Field: "nickname"}
		}
		return err
	}
	account.Nickname = nickname
	account.Avatar = avatar
	return nil
}

// UpdatePassword 修改密码，要求两次输入一致
func (s *AccountService) UpdatePassword(account *models.Account, newPassword, confirm string) error {
	if len(newPassword) < 8 {
		return ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	if newPassword != confirm {
		return ValidationError{Field: "password_confirm", Reason: "passwords do not match"}
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.db.Model(account).Update("password", hash).Error; err != nil {
		return err
	}
	account.Password = hash
	return nil
}

// UpdateNotificationPreference 开关"我的文章有新评论"站内通知
func (s *AccountService) UpdateNotificationPreference(account *models.Account, enabled bool) error {
	if err := s.db.Model(account).Update("comment_notification_enabled", enabled).Error; err != nil {
		return err
	}
	account.CommentNotificationEnabled = enabled
	return nil
}

// DeleteAccount 注销账号，级联删除名下文章、评论和通知，
// 释放登录名/昵称/邮箱供重新注册。
func (s *AccountService) DeleteAccount(account *models.Account) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("account_id = ?", account.ID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		// 自己文章下别人的评论也一并删除
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Account{}, account.ID).Error
	})
}

// IssueTemporaryPassword 找回密码：登录名和邮箱必须同时匹配同一账号，
// 单字段命中不给任何提示，避免账号枚举。
// 匹配成功时生成随机临时密码，哈希入库，明文只出现在邮件里。
func (s *AccountService) IssueTemporaryPassword(loginID, email string) error {
	var account models.Account
	if err := s.db.Where("login_id = ? AND email = ?", loginID, email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	plain := uuid.NewString()
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return err
	}
	if err := s.db.Model(&account).Update("password", hash).Error; err != nil {
		return err
	}

	s.mail.SendTemporaryPasswordEmail(account.Email, plain)
	log.Printf("Temporary password issued for account %d", account.ID)
	return nil
}

func (s *AccountService) GetByID(id uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *AccountService) GetByNickname(nickname string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("nickname = ?", nickname).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}
