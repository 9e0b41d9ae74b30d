package i18n

import "github.com/ks-platform/passport/internal/constants"

// messages 各语言文案表
var messages = map[string]map[string]string{
	constants.LocaleZhCN: {
		"error.bad_request":              "请求参数错误",
		"error.unauthorized":             "请先登录",
		"error.forbidden":                "没有操作权限",
		"error.not_found":                "记录不存在",
		"error.internal":                 "服务器内部错误",
		"error.rate_limited":             "操作过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":   "限流服务暂不可用",
		"error.invalid_credentials":      "用户名或密码错误",
		"error.user_disabled":            "账号已被禁用",
		"error.user_not_found":           "用户不存在",
		"error.username_invalid":         "用户名不合法",
		"error.username_exists":          "用户名已被注册",
		"error.phone_exists":             "手机号已被注册",
		"error.invite_code_invalid":      "邀请码无效",
		"error.inviter_bound":            "已绑定邀请人，不能重复绑定",
		"error.inviter_self":             "不能绑定自己为邀请人",
		"error.inviter_cycle":            "不能绑定被你邀请的用户为邀请人",
		"error.admin_secret_invalid":     "管理员密钥错误",
		"error.admin_exists":             "管理员已存在",
		"error.role_invalid":             "角色不合法",
		"error.status_invalid":           "状态不合法",
		"error.old_password_incorrect":   "原密码错误",
		"error.password_weak":            "密码强度不足",
		"error.password_min_length":      "密码长度不能少于 %d 位",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",
		"error.register_failed":          "注册失败，请稍后重试",
		"error.login_failed":             "登录失败，请稍后重试",
		"error.update_failed":            "更新失败，请稍后重试",
		"error.login_too_many":           "登录尝试过于频繁，请 %d 秒后重试",
		"error.jwt_secret_missing":       "服务端未配置签名密钥",
		"error.auth_header_missing":      "缺少认证信息",
		"error.auth_header_invalid":      "认证信息格式错误",
		"error.token_invalid":            "登录凭证无效，请重新登录",
		"error.token_revoked":            "登录凭证已失效，请重新登录",
		"error.user_id_invalid":          "用户标识无效",
		"error.user_id_type_invalid":     "用户标识类型错误",
		"error.user_fetch_failed":        "获取用户信息失败",
		"error.user_update_failed":       "更新用户信息失败",
		"error.referral_fetch_failed":    "获取邀请信息失败",
		"error.user_login_log_fetch_failed": "获取登录日志失败",
	},
	constants.LocaleZhTW: {
		"error.bad_request":              "請求參數錯誤",
		"error.unauthorized":             "請先登入",
		"error.forbidden":                "沒有操作權限",
		"error.not_found":                "記錄不存在",
		"error.internal":                 "伺服器內部錯誤",
		"error.rate_limited":             "操作過於頻繁，請 %d 秒後重試",
		"error.rate_limit_unavailable":   "限流服務暫不可用",
		"error.invalid_credentials":      "用戶名或密碼錯誤",
		"error.user_disabled":            "帳號已被停用",
		"error.user_not_found":           "用戶不存在",
		"error.username_invalid":         "用戶名不合法",
		"error.username_exists":          "用戶名已被註冊",
		"error.phone_exists":             "手機號已被註冊",
		"error.invite_code_invalid":      "邀請碼無效",
		"error.inviter_bound":            "已綁定邀請人，不能重複綁定",
		"error.inviter_self":             "不能綁定自己為邀請人",
		"error.inviter_cycle":            "不能綁定被你邀請的用戶為邀請人",
		"error.admin_secret_invalid":     "管理員密鑰錯誤",
		"error.admin_exists":             "管理員已存在",
		"error.role_invalid":             "角色不合法",
		"error.status_invalid":           "狀態不合法",
		"error.old_password_incorrect":   "原密碼錯誤",
		"error.password_weak":            "密碼強度不足",
		"error.password_min_length":      "密碼長度不能少於 %d 位",
		"error.password_require_upper":   "密碼需包含大寫字母",
		"error.password_require_lower":   "密碼需包含小寫字母",
		"error.password_require_number":  "密碼需包含數字",
		"error.password_require_special": "密碼需包含特殊字元",
		"error.register_failed":          "註冊失敗，請稍後重試",
		"error.login_failed":             "登入失敗，請稍後重試",
		"error.update_failed":            "更新失敗，請稍後重試",
		"error.login_too_many":           "登入嘗試過於頻繁，請 %d 秒後重試",
		"error.jwt_secret_missing":       "伺服端未配置簽名密鑰",
		"error.auth_header_missing":      "缺少認證資訊",
		"error.auth_header_invalid":      "認證資訊格式錯誤",
		"error.token_invalid":            "登入憑證無效，請重新登入",
		"error.token_revoked":            "登入憑證已失效，請重新登入",
		"error.user_id_invalid":          "用戶標識無效",
		"error.user_id_type_invalid":     "用戶標識類型錯誤",
		"error.user_fetch_failed":        "獲取用戶資訊失敗",
		"error.user_update_failed":       "更新用戶資訊失敗",
		"error.referral_fetch_failed":    "獲取邀請資訊失敗",
		"error.user_login_log_fetch_failed": "獲取登入日誌失敗",
	},
	constants.LocaleEnUS: {
		"error.bad_request":              "Invalid request parameters",
		"error.unauthorized":             "Please sign in first",
		"error.forbidden":                "Permission denied",
		"error.not_found":                "Record not found",
		"error.internal":                 "Internal server error",
		"error.rate_limited":             "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limit service unavailable",
		"error.invalid_credentials":      "Incorrect username or password",
		"error.user_disabled":            "Account disabled",
		"error.user_not_found":           "User not found",
		"error.username_invalid":         "Invalid username",
		"error.username_exists":          "Username already registered",
		"error.phone_exists":             "Phone number already registered",
		"error.invite_code_invalid":      "Invalid invite code",
		"error.inviter_bound":            "Inviter already bound",
		"error.inviter_self":             "Cannot bind yourself as inviter",
		"error.inviter_cycle":            "Cannot bind a user you invited as inviter",
		"error.admin_secret_invalid":     "Invalid admin secret",
		"error.admin_exists":             "Admin already exists",
		"error.role_invalid":             "Invalid role",
		"error.status_invalid":           "Invalid status",
		"error.old_password_incorrect":   "Old password is incorrect",
		"error.password_weak":            "Password is too weak",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a digit",
		"error.password_require_special": "Password must contain a special character",
		"error.register_failed":          "Registration failed, please try again later",
		"error.login_failed":             "Login failed, please try again later",
		"error.update_failed":            "Update failed, please try again later",
		"error.login_too_many":           "Too many login attempts, retry in %d seconds",
		"error.jwt_secret_missing":       "Signing secret not configured",
		"error.auth_header_missing":      "Missing authorization header",
		"error.auth_header_invalid":      "Malformed authorization header",
		"error.token_invalid":            "Invalid token, please sign in again",
		"error.token_revoked":            "Token revoked, please sign in again",
		"error.user_id_invalid":          "Invalid user identifier",
		"error.user_id_type_invalid":     "Unexpected user identifier type",
		"error.user_fetch_failed":        "Failed to fetch user",
		"error.user_update_failed":       "Failed to update user",
		"error.referral_fetch_failed":    "Failed to fetch referral info",
		"error.user_login_log_fetch_failed": "Failed to fetch login logs",
	},
}
