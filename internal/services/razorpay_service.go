package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strconv"
	"time"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayService lets customers pay an order's outstanding balance
// online. A captured transaction is recorded through PaymentService so
// the order's financials reconcile the same way as a manual payment.
type RazorpayService struct {
	transactionRepo   *repositories.OnlineTransactionRepository
	systemSettingRepo *repositories.SystemSettingRepository
	orders            OrderStore
	payments          *PaymentService
	// Fallback credentials from environment (used if DB credentials not set)
	envKeyID         string
	envKeySecret     string
	envWebhookSecret string
}

func NewRazorpayService(
	keyID, keySecret, webhookSecret string,
	transactionRepo *repositories.OnlineTransactionRepository,
	systemSettingRepo *repositories.SystemSettingRepository,
	orders OrderStore,
	payments *PaymentService,
) *RazorpayService {
	return &RazorpayService{
		transactionRepo:   transactionRepo,
		systemSettingRepo: systemSettingRepo,
		orders:            orders,
		payments:          payments,
		envKeyID:          keyID,
		envKeySecret:      keySecret,
		envWebhookSecret:  webhookSecret,
	}
}

// getCredentials returns the Razorpay credentials (from DB first, then env fallback)
func (s *RazorpayService) getCredentials(ctx context.Context) (keyID, keySecret, webhookSecret string) {
	if setting, err := s.systemSettingRepo.Get(ctx, "razorpay_key_id"); err == nil && setting != nil && setting.SettingValue != "" {
		keyID = setting.SettingValue
	}
	if setting, err := s.systemSettingRepo.Get(ctx, "razorpay_key_secret"); err == nil && setting != nil && setting.SettingValue != "" {
		keySecret = setting.SettingValue
	}
	if setting, err := s.systemSettingRepo.Get(ctx, "razorpay_webhook_secret"); err == nil && setting != nil && setting.SettingValue != "" {
		webhookSecret = setting.SettingValue
	}

	if keyID == "" {
		keyID = s.envKeyID
	}
	if keySecret == "" {
		keySecret = s.envKeySecret
	}
	if webhookSecret == "" {
		webhookSecret = s.envWebhookSecret
	}

	return keyID, keySecret, webhookSecret
}

func (s *RazorpayService) getClient(ctx context.Context) *razorpay.Client {
	keyID, keySecret, _ := s.getCredentials(ctx)
	if keyID == "" || keySecret == "" {
		return nil
	}
	return razorpay.NewClient(keyID, keySecret)
}

func (s *RazorpayService) getKeyID(ctx context.Context) string {
	keyID, _, _ := s.getCredentials(ctx)
	return keyID
}

func (s *RazorpayService) getKeySecret(ctx context.Context) string {
	_, keySecret, _ := s.getCredentials(ctx)
	return keySecret
}

func (s *RazorpayService) getWebhookSecret(ctx context.Context) string {
	_, _, webhookSecret := s.getCredentials(ctx)
	return webhookSecret
}

// IsEnabled checks if online payments are enabled in system settings
func (s *RazorpayService) IsEnabled(ctx context.Context) bool {
	setting, err := s.systemSettingRepo.Get(ctx, "online_payment_enabled")
	if err != nil || setting == nil {
		return false
	}
	return setting.SettingValue == "true"
}

// GetFeePercent returns the configured convenience fee percentage
func (s *RazorpayService) GetFeePercent(ctx context.Context) float64 {
	setting, err := s.systemSettingRepo.Get(ctx, "online_payment_fee_percent")
	if err != nil || setting == nil {
		return 2.5
	}
	fee, err := strconv.ParseFloat(setting.SettingValue, 64)
	if err != nil {
		return 2.5
	}
	return fee
}

// CalculateFee calculates the transaction fee for a given amount
func (s *RazorpayService) CalculateFee(amount float64, feePercent float64) float64 {
	return float64(int((amount*feePercent/100)*100+0.5)) / 100 // Round to 2 decimal places
}

// GetPaymentStatus returns payment status info for frontend
func (s *RazorpayService) GetPaymentStatus(ctx context.Context) *models.PaymentStatusResponse {
	return &models.PaymentStatusResponse{
		Enabled:    s.IsEnabled(ctx),
		FeePercent: s.GetFeePercent(ctx),
		KeyID:      s.getKeyID(ctx),
	}
}

// CreateOrder creates a Razorpay order for part or all of an order's
// outstanding balance and stores the transaction record.
func (s *RazorpayService) CreateOrder(ctx context.Context, req *models.CreateOnlinePaymentRequest) (*models.CreateOrderResponse, error) {
	if !s.IsEnabled(ctx) {
		return nil, fmt.Errorf("online payments are currently disabled")
	}

	client := s.getClient(ctx)
	if client == nil {
		return nil, fmt.Errorf("razorpay client not configured")
	}

	if req.Amount <= 0 {
		return nil, &ValidationError{Op: "create online payment", Reason: "amount must be positive"}
	}

	order, err := s.orders.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.MergeState == models.MergeStateAbsorbed {
		return nil, &InvalidStateError{Op: "create online payment", Reason: fmt.Sprintf("order %s was merged into %s", order.DisplayCode, order.MergedInto)}
	}
	if req.Amount > order.BalanceDue {
		return nil, &ValidationError{Op: "create online payment", Reason: fmt.Sprintf("amount %.2f exceeds balance due %.2f", req.Amount, order.BalanceDue)}
	}

	feePercent := s.GetFeePercent(ctx)
	feeAmount := s.CalculateFee(req.Amount, feePercent)
	totalAmount := req.Amount + feeAmount

	// Razorpay amounts are in paise
	amountPaise := int(totalAmount * 100)

	orderData := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("rcpt_%d_%d", order.ID, time.Now().Unix()),
		"notes": map[string]interface{}{
			"order_id":   order.ID,
			"order_code": order.DisplayCode,
		},
	}

	rzpOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	rzpOrderID, err := razorpayOrderID(rzpOrder)
	if err != nil {
		return nil, err
	}

	tx := &models.OnlineTransaction{
		OrderID:         order.ID,
		RazorpayOrderID: rzpOrderID,
		Amount:          req.Amount,
		Fee:             feeAmount,
		Status:          models.OnlineTxStatusCreated,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	return &models.CreateOrderResponse{
		RazorpayOrderID: rzpOrderID,
		Amount:          int(req.Amount * 100),
		FeeAmount:       int(feeAmount * 100),
		TotalAmount:     amountPaise,
		Currency:        "INR",
		KeyID:           s.getKeyID(ctx),
		OrderCode:       order.DisplayCode,
		FeePercent:      feePercent,
	}, nil
}

// VerifyPayment verifies the checkout callback signature and records
// the payment against the order.
func (s *RazorpayService) VerifyPayment(ctx context.Context, req *models.VerifyOnlinePaymentRequest) (*models.OnlineTransaction, error) {
	if !s.verifySignature(ctx, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		_ = s.transactionRepo.MarkFailed(ctx, req.RazorpayOrderID, "invalid signature")
		return nil, fmt.Errorf("invalid payment signature")
	}

	tx, err := s.transactionRepo.GetByRazorpayOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, fmt.Errorf("transaction not found: %w", err)
	}

	// Idempotent: checkout callback and webhook can both arrive
	if tx.Status == models.OnlineTxStatusCaptured {
		return tx, nil
	}

	if err := s.capture(ctx, tx, req.RazorpayPaymentID); err != nil {
		return nil, err
	}

	tx, _ = s.transactionRepo.GetByRazorpayOrderID(ctx, req.RazorpayOrderID)
	return tx, nil
}

// verifySignature verifies the Razorpay payment signature
func (s *RazorpayService) verifySignature(ctx context.Context, orderID, paymentID, signature string) bool {
	keySecret := s.getKeySecret(ctx)
	if keySecret == "" {
		return false
	}
	data := orderID + "|" + paymentID
	h := hmac.New(sha256.New, []byte(keySecret))
	h.Write([]byte(data))
	expectedSignature := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

// VerifyWebhookSignature verifies the webhook signature
func (s *RazorpayService) VerifyWebhookSignature(ctx context.Context, body []byte, signature string) bool {
	webhookSecret := s.getWebhookSecret(ctx)
	if webhookSecret == "" {
		return true // Skip verification if not configured
	}
	h := hmac.New(sha256.New, []byte(webhookSecret))
	h.Write(body)
	expectedSignature := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

// capture marks the transaction captured and records the payment. The
// payment goes through PaymentService so the owning order reconciles,
// even if the order was merged after checkout started.
func (s *RazorpayService) capture(ctx context.Context, tx *models.OnlineTransaction, razorpayPaymentID string) error {
	if err := s.transactionRepo.MarkCaptured(ctx, tx.RazorpayOrderID, razorpayPaymentID); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	payment := &models.Payment{
		OrderID:        tx.OrderID,
		Amount:         tx.Amount,
		Method:         "online",
		TransactionRef: razorpayPaymentID,
		Notes:          fmt.Sprintf("Razorpay order %s | Fee: ₹%.2f", tx.RazorpayOrderID, tx.Fee),
		RecordedByName: "Razorpay",
	}
	if _, err := s.payments.RecordPayment(ctx, payment); err != nil {
		// Payment is captured at Razorpay either way, so surface but
		// don't undo the transaction status.
		log.Printf("[Razorpay] Failed to record payment for %s: %v", tx.RazorpayOrderID, err)
		return fmt.Errorf("failed to record payment: %w", err)
	}

	if err := s.transactionRepo.LinkPayment(ctx, tx.RazorpayOrderID, payment.ID); err != nil {
		log.Printf("[Razorpay] Failed to link payment %d to %s: %v", payment.ID, tx.RazorpayOrderID, err)
	}
	return nil
}

// ProcessWebhook processes Razorpay webhook events
func (s *RazorpayService) ProcessWebhook(ctx context.Context, event string, paymentData map[string]interface{}) error {
	switch event {
	case "payment.captured":
		return s.handlePaymentCaptured(ctx, paymentData)
	case "payment.failed":
		return s.handlePaymentFailed(ctx, paymentData)
	default:
		log.Printf("[Razorpay] Unhandled webhook event: %s", event)
		return nil
	}
}

func (s *RazorpayService) handlePaymentCaptured(ctx context.Context, paymentData map[string]interface{}) error {
	entity := webhookEntity(paymentData)
	orderID, _ := entity["order_id"].(string)
	paymentID, _ := entity["id"].(string)

	if orderID == "" {
		return fmt.Errorf("missing order_id in webhook")
	}

	tx, err := s.transactionRepo.GetByRazorpayOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("transaction not found: %w", err)
	}
	if tx.Status == models.OnlineTxStatusCaptured {
		log.Printf("[Razorpay] Payment already processed: %s", orderID)
		return nil
	}

	return s.capture(ctx, tx, paymentID)
}

func (s *RazorpayService) handlePaymentFailed(ctx context.Context, paymentData map[string]interface{}) error {
	entity := webhookEntity(paymentData)
	orderID, _ := entity["order_id"].(string)

	reason := "Payment failed"
	if desc, ok := entity["error_description"].(string); ok && desc != "" {
		reason = desc
	}

	if orderID != "" {
		return s.transactionRepo.MarkFailed(ctx, orderID, reason)
	}
	return nil
}

// razorpayOrderID pulls the order id out of a Razorpay order-create
// response. The SDK hands back an untyped map, so a missing or
// non-string id must surface as an error, not a panic.
func razorpayOrderID(rzpOrder map[string]interface{}) (string, error) {
	id, ok := rzpOrder["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay order response missing id: %v", rzpOrder)
	}
	return id, nil
}

// webhookEntity unwraps the payment entity from Razorpay's nested
// webhook payload shape.
func webhookEntity(paymentData map[string]interface{}) map[string]interface{} {
	paymentEntity, ok := paymentData["payment"].(map[string]interface{})
	if !ok {
		paymentEntity = paymentData
	}
	entity, ok := paymentEntity["entity"].(map[string]interface{})
	if !ok {
		entity = paymentEntity
	}
	return entity
}

// ListTransactionsForOrder returns online payment attempts for an order.
func (s *RazorpayService) ListTransactionsForOrder(ctx context.Context, orderID int) ([]*models.OnlineTransaction, error) {
	return s.transactionRepo.ListByOrder(ctx, orderID)
}
