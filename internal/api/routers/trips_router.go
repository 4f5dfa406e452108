package routers

import (
	"net/http"
	"tripledger/internal/api/handlers/trips"
)

func tripsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/trips/create", trips.CreateTripHandler)

	mux.HandleFunc("/trips/", trips.GetAllTripsHandler)

	mux.HandleFunc("/trips/{id}", trips.GetTripByIDHandler)

	mux.HandleFunc("/trips/delete/{id}", trips.DeleteTripHandler)

	mux.HandleFunc("/trips/{id}/members/add", trips.AddMemberHandler)

	mux.HandleFunc("/trips/{id}/members/{name}/remove", trips.RemoveMemberHandler)

	mux.HandleFunc("/trips/{id}/members/{name}/rename", trips.RenameMemberHandler)

	mux.HandleFunc("/trips/{id}/expenses/create", trips.CreateExpenseHandler)

	mux.HandleFunc("/trips/{id}/expenses", trips.GetExpensesHandler)

	mux.HandleFunc("/trips/{id}/expenses/{expenseId}", trips.GetExpenseByIdHandler)

	mux.HandleFunc("/trips/{id}/expenses/{expenseId}/update", trips.UpdateExpenseHandler)

	mux.HandleFunc("/trips/{id}/expenses/{expenseId}/delete", trips.DeleteExpenseHandler)

	mux.HandleFunc("/trips/{id}/balances", trips.GetTripBalancesHandler)

	return mux
}
