package routers

import (
	"net/http"
	"tripledger/internal/api/handlers/auth"
)

func usersRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/login", auth.LoginHandler)
	mux.HandleFunc("/users/logout", auth.LogoutHandler)

	mux.HandleFunc("/users/", auth.GetAllUsersHandler)
	mux.HandleFunc("/users/create", auth.AddUserHandler)
	mux.HandleFunc("/users/batch", auth.BatchCreateUsersHandler)
	mux.HandleFunc("/users/delete/{username}", auth.DeleteUserHandler)
	mux.HandleFunc("/users/password/{username}", auth.UpdateUserPasswordHandler)

	return mux
}
