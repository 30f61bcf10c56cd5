package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/puoklam/microblog-backend/api/auth"
	"github.com/puoklam/microblog-backend/api/micropost"
	"github.com/puoklam/microblog-backend/api/relationship"
	"github.com/puoklam/microblog-backend/api/user"
	_ "github.com/puoklam/microblog-backend/db"
	"github.com/puoklam/microblog-backend/mq"
	"github.com/puoklam/microblog-backend/server"
)

func cleanup() {
	mq.StopProducers()
}

func main() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cleanup()
		fmt.Println("quit")
		os.Exit(0)
	}()

	logger := log.New(os.Stdout, "microblog-backend", log.LstdFlags|log.Lshortfile)

	r := chi.NewRouter()
	server.SetupMiddlewares(r)

	authHandlers := auth.NewHandlers(logger)
	authHandlers.SetupRoutes(r)

	userHandlers := user.NewHandlers(logger)
	userHandlers.SetupRoutes(r)

	relHandlers := relationship.NewHandlers(logger)
	relHandlers.SetupRoutes(r)

	postHandlers := micropost.NewHandlers(logger)
	postHandlers.SetupRoutes(r)

	srv := server.New(r)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalln(err)
	}
}
