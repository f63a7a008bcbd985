// Package authz 提供纯函数形式的访问控制判定，不产生任何副作用。
// 所有权比较一律使用不可变的 LoginID，而不是可修改的昵称。
package authz

import (
	"echoboard/internal/models"
)

// CanReadPost 判断 principal 是否可以阅读文章。
// 公开文章任何人可读；私密文章仅作者本人可读。
func CanReadPost(post *models.Post, principal *models.Account) bool {
	if post.Visibility == models.VisibilityPublic {
		return true
	}
	return principal != nil && principal.LoginID == post.Account.LoginID
}

// CanReadComment 与 CanReadPost 同样的规则，评论可见性独立于所属文章
func CanReadComment(comment *models.Comment, principal *models.Account) bool {
	if comment.Visibility == models.VisibilityPublic {
		return true
	}
	return principal != nil && principal.LoginID == comment.Account.LoginID
}

// CanMutatePost 只有作者本人可以修改或删除文章
func CanMutatePost(post *models.Post, principal *models.Account) bool {
	return principal != nil && principal.LoginID == post.Account.LoginID
}

// CanMutateComment 只有作者本人可以修改或删除评论
func CanMutateComment(comment *models.Comment, principal *models.Account) bool {
	return principal != nil && principal.LoginID == comment.Account.LoginID
}

// CanWrite 发布文章/评论要求已登录且邮箱已验证
func CanWrite(principal *models.Account) bool {
	return principal != nil && principal.EmailVerified
}
