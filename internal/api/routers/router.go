package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	tRouter := tripsRouter()
	mux.Handle("/trips/", tRouter)

	return mux
}
