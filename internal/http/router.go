package http

import (
	"net/http"

	"rental-backend/internal/handlers"
	"rental-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	customerHandler *handlers.CustomerHandler,
	equipmentHandler *handlers.EquipmentHandler,
	orderHandler *handlers.OrderHandler,
	mergeHandler *handlers.MergeHandler,
	paymentHandler *handlers.PaymentHandler,
	expenseHandler *handlers.ExpenseHandler,
	reportHandler *handlers.ReportHandler,
	systemSettingHandler *handlers.SystemSettingHandler,
	actionLogHandler *handlers.ActionLogHandler,
	razorpayHandler *handlers.RazorpayHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Razorpay server-to-server webhook (signature-verified, no JWT)
	r.HandleFunc("/webhooks/razorpay", razorpayHandler.Webhook).Methods("POST")

	// Health checks for Kubernetes probes
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Protected API routes - current user
	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.ListUsers)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.GetUser)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.UpdateUser)).ServeHTTP).Methods("PUT")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.DeleteUser)).ServeHTTP).Methods("DELETE")
	usersAPI.HandleFunc("/{id}/toggle-active", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.ToggleActiveStatus)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Customers
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Authenticate)
	customersAPI.HandleFunc("", customerHandler.ListCustomers).Methods("GET")
	customersAPI.HandleFunc("", customerHandler.CreateCustomer).Methods("POST")
	customersAPI.HandleFunc("/search", customerHandler.SearchByPhone).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.GetCustomer).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.UpdateCustomer).Methods("PUT")
	customersAPI.HandleFunc("/{id}", customerHandler.DeleteCustomer).Methods("DELETE")

	// Protected API routes - Equipment catalog
	equipmentAPI := r.PathPrefix("/api/equipment").Subrouter()
	equipmentAPI.Use(authMiddleware.Authenticate)
	equipmentAPI.HandleFunc("", equipmentHandler.ListEquipment).Methods("GET")
	equipmentAPI.HandleFunc("", equipmentHandler.CreateEquipment).Methods("POST")
	equipmentAPI.HandleFunc("/{id}", equipmentHandler.GetEquipment).Methods("GET")
	equipmentAPI.HandleFunc("/{id}", equipmentHandler.UpdateEquipment).Methods("PUT")
	equipmentAPI.HandleFunc("/{id}", equipmentHandler.DeleteEquipment).Methods("DELETE")

	// Protected API routes - Orders and merging
	ordersAPI := r.PathPrefix("/api/orders").Subrouter()
	ordersAPI.Use(authMiddleware.Authenticate)
	ordersAPI.HandleFunc("", orderHandler.ListOrders).Methods("GET")
	ordersAPI.HandleFunc("", orderHandler.CreateOrder).Methods("POST")
	ordersAPI.HandleFunc("/merged", orderHandler.ListMergedOrders).Methods("GET")
	ordersAPI.HandleFunc("/merge", mergeHandler.MergeOrders).Methods("POST")
	ordersAPI.HandleFunc("/merge-history", mergeHandler.GetMergeHistory).Methods("GET")
	ordersAPI.HandleFunc("/{id}", orderHandler.GetOrder).Methods("GET")
	ordersAPI.HandleFunc("/{id}", orderHandler.UpdateOrder).Methods("PUT")
	ordersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(orderHandler.DeleteOrder)).ServeHTTP).Methods("DELETE")
	// Unmerge reverses a merge, admin only
	ordersAPI.HandleFunc("/{id}/unmerge", authMiddleware.RequireAdmin(http.HandlerFunc(mergeHandler.UnmergeOrder)).ServeHTTP).Methods("POST")
	ordersAPI.HandleFunc("/{order_id}/payments", paymentHandler.ListPaymentsForOrder).Methods("GET")
	ordersAPI.HandleFunc("/{order_id}/transactions", razorpayHandler.ListTransactionsForOrder).Methods("GET")

	// Protected API routes - Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("", paymentHandler.RecordPayment).Methods("POST")
	paymentsAPI.HandleFunc("/{id}", authMiddleware.RequireRole("admin", "accountant")(http.HandlerFunc(paymentHandler.UpdatePayment)).ServeHTTP).Methods("PUT")
	paymentsAPI.HandleFunc("/{id}", authMiddleware.RequireRole("admin", "accountant")(http.HandlerFunc(paymentHandler.DeletePayment)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Expenses
	expensesAPI := r.PathPrefix("/api/expenses").Subrouter()
	expensesAPI.Use(authMiddleware.Authenticate)
	expensesAPI.HandleFunc("", expenseHandler.ListExpenses).Methods("GET")
	expensesAPI.HandleFunc("", expenseHandler.RecordExpense).Methods("POST")
	expensesAPI.HandleFunc("/summary", expenseHandler.MonthlySummary).Methods("GET")
	expensesAPI.HandleFunc("/{id}", authMiddleware.RequireRole("admin", "accountant")(http.HandlerFunc(expenseHandler.DeleteExpense)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/summary", reportHandler.GetFinancialSummary).Methods("GET")
	reportsAPI.HandleFunc("/orders", reportHandler.GetOrderReport).Methods("GET")
	reportsAPI.HandleFunc("/export", reportHandler.ExportArchive).Methods("GET")

	// Protected API routes - System Settings (admin only for writes)
	settingsAPI := r.PathPrefix("/api/settings").Subrouter()
	settingsAPI.Use(authMiddleware.Authenticate)
	settingsAPI.HandleFunc("", systemSettingHandler.ListSettings).Methods("GET")
	settingsAPI.HandleFunc("/{key}", systemSettingHandler.GetSetting).Methods("GET")
	settingsAPI.HandleFunc("/{key}", authMiddleware.RequireAdmin(http.HandlerFunc(systemSettingHandler.UpdateSetting)).ServeHTTP).Methods("PUT")

	// Protected API routes - Action logs (admin only)
	logsAPI := r.PathPrefix("/api/action-logs").Subrouter()
	logsAPI.Use(authMiddleware.Authenticate)
	logsAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(actionLogHandler.ListActionLogs)).ServeHTTP).Methods("GET")

	// Protected API routes - Online payments
	onlineAPI := r.PathPrefix("/api/online-payments").Subrouter()
	onlineAPI.Use(authMiddleware.Authenticate)
	onlineAPI.HandleFunc("/status", razorpayHandler.GetPaymentStatus).Methods("GET")
	onlineAPI.HandleFunc("/create-order", razorpayHandler.CreateOrder).Methods("POST")
	onlineAPI.HandleFunc("/verify", razorpayHandler.VerifyPayment).Methods("POST")

	return r
}
