package router

import (
	"account-service/backend/app/controllers"
	"account-service/backend/app/middleware"
	"net/http"
)

func NewRouter(httpCtrl *controllers.HTTPController, authCtrl *controllers.AuthController, profileCtrl *controllers.ProfileController, mw *middleware.Auth) http.Handler {
	mux := http.NewServeMux()
	// public
	mux.HandleFunc("GET /ping", httpCtrl.Ping)
	mux.HandleFunc("POST /signup", authCtrl.Signup)
	mux.HandleFunc("POST /login", authCtrl.Login)

	// protected
	mux.Handle("GET /profile", mw.RequireAuth(http.HandlerFunc(profileCtrl.Get)))
	mux.Handle("PUT /updateprofile", mw.RequireAuth(http.HandlerFunc(profileCtrl.Update)))

	return middleware.Logging(middleware.Recover(mux))
}
