package http

import (
	"net/http"

	"carshare-backend/internal/security"
	"carshare-backend/internal/service"
	"carshare-backend/internal/storage"

	"github.com/gorilla/mux"
)

// Services bundles everything the router needs.
type Services struct {
	Auth         service.AuthService
	Vehicle      service.VehicleService
	Availability service.AvailabilityService
	Booking      service.BookingService
	Reservation  service.ReservationService
	Inspection   service.InspectionService
	Contract     service.ContractService
	Upload       service.UploadService
	Notification service.NotificationService
}

// NewRouter builds the full API surface. localStore is non-nil only when the
// local storage backend is active; it enables the upload/download endpoints
// its presigned URLs point at.
func NewRouter(svcs *Services, tokens security.TokenManager, localStore storage.StorageInterface) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	authHandler := NewAuthHandler(svcs.Auth)
	router.HandleFunc("/api/v1/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/api/v1/auth/login", authHandler.Login).Methods("POST")

	if localStore != nil {
		RegisterLocalStorageRoutes(router, localStore)
	}

	// Everything below requires a bearer token.
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	vehicleHandler := NewVehicleHandler(svcs.Vehicle, svcs.Availability)
	api.HandleFunc("/vehicles", vehicleHandler.AddVehicle).Methods("POST")
	api.HandleFunc("/vehicles/{id}", vehicleHandler.GetVehicle).Methods("GET")
	api.HandleFunc("/my/vehicles", vehicleHandler.ListMyVehicles).Methods("GET")
	api.HandleFunc("/vehicles/{id}/availability", vehicleHandler.GetAvailability).Methods("GET")
	api.HandleFunc("/vehicles/{id}/blocked-dates", vehicleHandler.BlockDates).Methods("POST")
	api.HandleFunc("/vehicles/{id}/blocked-dates/{day}", vehicleHandler.UnblockDate).Methods("DELETE")

	reservationHandler := NewReservationHandler(svcs.Booking, svcs.Reservation, svcs.Contract)
	api.HandleFunc("/bookings", reservationHandler.CreateBooking).Methods("POST")
	api.HandleFunc("/reservations", reservationHandler.List).Methods("GET")
	api.HandleFunc("/reservations/{id}", reservationHandler.Get).Methods("GET")
	api.HandleFunc("/reservations/{id}/confirm", reservationHandler.Confirm).Methods("POST")
	api.HandleFunc("/reservations/{id}/cancel", reservationHandler.Cancel).Methods("POST")
	api.HandleFunc("/reservations/{id}/contract/sign", reservationHandler.SignContract).Methods("POST")
	api.HandleFunc("/reservations/{id}/contract/url", reservationHandler.GetContractURL).Methods("GET")

	inspectionHandler := NewInspectionHandler(svcs.Inspection)
	api.HandleFunc("/reservations/{id}/checkin", inspectionHandler.SubmitCheckIn).Methods("POST")
	api.HandleFunc("/reservations/{id}/checkin/validate", inspectionHandler.ValidateCheckIn).Methods("POST")
	api.HandleFunc("/reservations/{id}/checkout", inspectionHandler.SubmitCheckOut).Methods("POST")
	api.HandleFunc("/reservations/{id}/checkout/validate", inspectionHandler.ValidateCheckOut).Methods("POST")
	api.HandleFunc("/reservations/{id}/inspections/{side}", inspectionHandler.GetInspection).Methods("GET")

	uploadHandler := NewUploadHandler(svcs.Upload)
	api.HandleFunc("/uploads", uploadHandler.GetUploadURL).Methods("POST")
	api.HandleFunc("/files/url", uploadHandler.GetDownloadURL).Methods("GET")

	notificationHandler := NewNotificationHandler(svcs.Notification)
	api.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("POST")

	return router
}
