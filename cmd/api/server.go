package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	mw "tripledger/internal/api/middlewares"
	"tripledger/internal/api/routers"
	"tripledger/internal/repositories/sqlconnect"
	"tripledger/internal/repositories/tripstore"
	"tripledger/pkg/cron"
	"tripledger/pkg/utils"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		return
	}

	utils.InitLogger()

	err = sqlconnect.ConnectDb()
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	err = tripstore.EnsureSchema(sqlconnect.DB)
	if err != nil {
		utils.Logger.Fatal("schema setup failed: ", err)
	}

	cron.StartCronJobs(sqlconnect.DB)

	port := os.Getenv("SERVER_PORT")

	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	router := routers.MainRouter()
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware, "/users/login")

	secureMux := jwtMiddleware(mw.SecurityHeaders(router))

	server := &http.Server{
		Addr:      port,
		Handler:   secureMux,
		TLSConfig: tlsConfig,
	}

	fmt.Println("Server is running on port", port)
	err = server.ListenAndServeTLS(cert, key)
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}

}
