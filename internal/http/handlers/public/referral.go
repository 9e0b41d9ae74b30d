package public

import (
	"errors"
	"strconv"

	"github.com/ks-platform/passport/internal/http/response"
	"github.com/ks-platform/passport/internal/service"

	"github.com/gin-gonic/gin"
)

// GetMyReferral 获取当前用户推荐信息
func (h *Handler) GetMyReferral(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	info, err := h.ReferralService.GetReferralInfo(uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.referral_fetch_failed", err)
		}
		return
	}
	response.Success(c, info)
}

// BindInviterRequest 补绑邀请人请求
type BindInviterRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// BindInviter 注册后补绑邀请人
func (h *Handler) BindInviter(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req BindInviterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.ReferralService.BindInviter(uid, req.InviteCode); err != nil {
		switch {
		case errors.Is(err, service.ErrInviterBound):
			respondError(c, response.CodeBadRequest, "error.inviter_bound", nil)
		case errors.Is(err, service.ErrInviterSelf):
			respondError(c, response.CodeBadRequest, "error.inviter_self", nil)
		case errors.Is(err, service.ErrInviterCycle):
			respondError(c, response.CodeBadRequest, "error.inviter_cycle", nil)
		case errors.Is(err, service.ErrInviteCodeInvalid):
			respondError(c, response.CodeBadRequest, "error.invite_code_invalid", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.update_failed", err)
		}
		return
	}

	response.Success(c, gin.H{"bound": true})
}

// ListReferrals 邀请关系列表（管理员全量，普通用户仅自己相关）
func (h *Handler) ListReferrals(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	viewer, err := h.UserAuthService.GetUserByID(uid)
	if err != nil || viewer == nil {
		respondError(c, response.CodeInternal, "error.referral_fetch_failed", err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	refs, total, err := h.ReferralService.List(viewer, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.referral_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, refs, pagination)
}

// ListMyInvites 当前用户直接邀请的用户列表
func (h *Handler) ListMyInvites(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	entries, total, err := h.ReferralService.ListMyInvites(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.referral_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, entries, pagination)
}

// GetReferralChain 查询某用户的两级邀请链
func (h *Handler) GetReferralChain(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	viewer, err := h.UserAuthService.GetUserByID(uid)
	if err != nil || viewer == nil {
		respondError(c, response.CodeInternal, "error.referral_fetch_failed", err)
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil || targetID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	chain, err := h.ReferralService.GetChain(viewer, uint(targetID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.referral_fetch_failed", err)
		}
		return
	}
	response.Success(c, chain)
}
