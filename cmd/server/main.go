package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/revisely/backend/internal/auth"
	"github.com/revisely/backend/internal/database"
	"github.com/revisely/backend/internal/diagram"
	"github.com/revisely/backend/internal/generator"
	"github.com/revisely/backend/internal/middleware"
	"github.com/revisely/backend/internal/quiz"
	"github.com/rs/cors"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	gen := generator.NewGenerator()
	log.Printf("Question generator ready (model %s)", gen.ModelName())

	var renderer diagram.Renderer
	if endpoint := os.Getenv("DIAGRAM_RENDERER_URL"); endpoint != "" {
		renderer = diagram.NewHTTPRenderer(endpoint)
		log.Printf("Diagram rendering enabled via %s", endpoint)
	}

	store := quiz.NewStore(db)
	service := quiz.NewService(store, quiz.NewBankBuilder(gen, renderer))

	// Initialize handlers
	authHandler := auth.NewHandler(db)
	quizHandler := quiz.NewHandler(service)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/topics", quizHandler.CreateTopic).Methods("POST")
	protected.HandleFunc("/topics", quizHandler.ListTopics).Methods("GET")
	protected.HandleFunc("/topics/{id:[0-9]+}", quizHandler.GetTopic).Methods("GET")

	protected.HandleFunc("/schedule/due", quizHandler.ListDue).Methods("GET")
	protected.HandleFunc("/schedule/{id:[0-9]+}/questions", quizHandler.GetAttemptQuestions).Methods("GET")
	protected.HandleFunc("/schedule/{id:[0-9]+}/complete", quizHandler.CompleteAttempt).Methods("POST")
	protected.HandleFunc("/schedule/{id:[0-9]+}/review", quizHandler.ReviewAttempt).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
