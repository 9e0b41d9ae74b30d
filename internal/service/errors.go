package service

import "errors"

// 业务错误定义，处理器通过 errors.Is 映射为接口错误码
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrInvalidPassword    = errors.New("原密码错误")
	ErrWeakPassword       = errors.New("密码强度不足")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrInvalidUsername    = errors.New("用户名不合法")
	ErrUsernameExists     = errors.New("用户名已被注册")
	ErrPhoneExists        = errors.New("手机号已被注册")
	ErrInviteCodeInvalid  = errors.New("邀请码无效")
	ErrInviterBound       = errors.New("已绑定邀请人")
	ErrInviterSelf        = errors.New("不能绑定自己为邀请人")
	ErrInviterCycle       = errors.New("邀请关系不能互为邀请人")
	ErrAdminSecretInvalid = errors.New("管理员密钥错误")
	ErrAdminExists        = errors.New("管理员已存在")
	ErrInvalidRole        = errors.New("角色不合法")
	ErrInvalidStatus      = errors.New("状态不合法")
)
