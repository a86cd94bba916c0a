package controller

import "net/http"

// Routes wires every controller onto a mux.
func Routes(nc *NegotiationController, fc *FrameworkController, notif *NotificationController) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", nc.HandleResolve)
	mux.HandleFunc("/negotiations", nc.HandleNegotiations)
	mux.HandleFunc("/negotiations/", nc.HandleNegotiationDetail)
	mux.HandleFunc("/frameworks/", fc.HandleFramework)
	mux.HandleFunc("/notifications", notif.HandleNotifications)
	mux.HandleFunc("/notifications/", notif.HandleNotificationDetail)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}
