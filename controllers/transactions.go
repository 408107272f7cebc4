package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bellapacxx/bingo-hall/config"
	"github.com/bellapacxx/bingo-hall/models"
	"github.com/bellapacxx/bingo-hall/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListTransactions returns a user's ledger history, newest first
func ListTransactions(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var txs []models.Transaction
	if err := config.DB.Where("user_id = ?", id).Order("created_at desc").Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, txs)
}

// AddCredit lets an admin credit a user's balance directly
func AddCredit(c *gin.Context) {
	var req struct {
		AdminID uint            `json:"admin_id" binding:"required"`
		UserID  uint            `json:"user_id" binding:"required"`
		Amount  decimal.Decimal `json:"amount" binding:"required"`
		Note    string          `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	var admin models.User
	if err := config.DB.First(&admin, req.AdminID).Error; err != nil || !admin.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only an admin can add credit"})
		return
	}

	desc := req.Note
	if desc == "" {
		desc = fmt.Sprintf("Credit added by %s", admin.Username)
	}
	tx, err := services.Accounts.Post(services.Entry{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Type:        models.TxAdminCredit,
		Description: desc,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// CreateCreditRequest files a top-up request for admin review
func CreateCreditRequest(c *gin.Context) {
	var req struct {
		UserID uint            `json:"user_id" binding:"required"`
		Amount decimal.Decimal `json:"amount" binding:"required"`
		Proof  string          `json:"proof"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	cr := models.CreditRequest{UserID: req.UserID, Amount: req.Amount, Proof: req.Proof}
	if err := config.DB.Create(&cr).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}
	c.JSON(http.StatusCreated, cr)
}

// ProcessCreditRequest approves or rejects a pending top-up. Approval
// credits the requested amount through the ledger.
func ProcessCreditRequest(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		AdminID uint   `json:"admin_id" binding:"required"`
		Approve bool   `json:"approve"`
		Notes   string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admin models.User
	if err := config.DB.First(&admin, req.AdminID).Error; err != nil || !admin.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only an admin can process requests"})
		return
	}

	var cr models.CreditRequest
	if err := config.DB.First(&cr, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if cr.Status != models.RequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Request already processed"})
		return
	}

	now := time.Now()
	cr.AdminNotes = req.Notes
	cr.ProcessedAt = &now
	if !req.Approve {
		cr.Status = models.RequestRejected
		if err := config.DB.Save(&cr).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
			return
		}
		c.JSON(http.StatusOK, cr)
		return
	}

	cr.Status = models.RequestApproved
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&cr).Error; err != nil {
			return err
		}
		_, err := services.NewGormStore(tx).Post(services.Entry{
			UserID:      cr.UserID,
			Amount:      cr.Amount,
			Type:        models.TxAdminCredit,
			Description: fmt.Sprintf("Credit request #%d approved", cr.ID),
		})
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cr)
}

// CreateWithdrawal reserves credits for an off-platform payout. The amount
// leaves the balance immediately so it cannot be spent while pending.
func CreateWithdrawal(c *gin.Context) {
	var req struct {
		UserID            uint            `json:"user_id" binding:"required"`
		Amount            decimal.Decimal `json:"amount" binding:"required"`
		BankName          string          `json:"bank_name" binding:"required"`
		AccountNumber     string          `json:"account_number" binding:"required"`
		AccountHolderName string          `json:"account_holder_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, req.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.CreditBalance.LessThan(req.Amount) {
		respondError(c, services.ErrInsufficientFunds)
		return
	}

	wr := models.WithdrawalRequest{
		UserID:            req.UserID,
		Amount:            req.Amount,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		AccountHolderName: req.AccountHolderName,
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&wr).Error; err != nil {
			return err
		}
		_, err := services.NewGormStore(tx).Post(services.Entry{
			UserID:      req.UserID,
			Amount:      req.Amount.Neg(),
			Type:        models.TxWithdrawal,
			Description: fmt.Sprintf("Withdrawal request to %s", req.BankName),
		})
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wr)
}

// ProcessWithdrawal completes or rejects a pending withdrawal. Rejection
// refunds the reserved amount through the ledger.
func ProcessWithdrawal(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		AdminID uint   `json:"admin_id" binding:"required"`
		Approve bool   `json:"approve"`
		Notes   string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admin models.User
	if err := config.DB.First(&admin, req.AdminID).Error; err != nil || !admin.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only an admin can process withdrawals"})
		return
	}

	var wr models.WithdrawalRequest
	if err := config.DB.First(&wr, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Withdrawal not found"})
		return
	}
	if wr.Status != models.RequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Withdrawal already processed"})
		return
	}

	now := time.Now()
	wr.AdminNotes = req.Notes
	wr.ProcessedAt = &now
	if req.Approve {
		// the credits already left the balance; just mark the payout done
		wr.Status = models.RequestCompleted
		wr.TransactionRef = uuid.NewString()
		if err := config.DB.Save(&wr).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update withdrawal"})
			return
		}
		c.JSON(http.StatusOK, wr)
		return
	}

	wr.Status = models.RequestRejected
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&wr).Error; err != nil {
			return err
		}
		_, err := services.NewGormStore(tx).Post(services.Entry{
			UserID:      wr.UserID,
			Amount:      wr.Amount,
			Type:        models.TxWithdrawalRefund,
			Description: fmt.Sprintf("Withdrawal request #%d rejected", wr.ID),
		})
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wr)
}
