// Package server exposes the careerpilot services over HTTP.
package server

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/interview"
	"github.com/abhisek/careerpilot/internal/mentor"
	"github.com/abhisek/careerpilot/internal/progress"
	"github.com/abhisek/careerpilot/internal/resume"
	"github.com/abhisek/careerpilot/internal/roadmap"
)

// Services are the domain services the API fronts.
type Services struct {
	Interview *interview.Service
	Roadmaps  *roadmap.Pipeline
	Progress  *progress.Service
	Resumes   *resume.Service
	Mentor    *mentor.Service
}

type Options struct {
	Addr         string
	JWTSecret    string
	ReadTimeout  time.Duration
	MaxBodyBytes int
}

// Server is the HTTP API.
type Server struct {
	svc Services
	h   *server.Hertz
}

// New builds the server and registers every route. Nothing listens until
// Run is called.
func New(svc Services, opts Options) *Server {
	hopts := []config.Option{server.WithHostPorts(opts.Addr), server.WithDisablePrintRoute(true)}
	if opts.ReadTimeout > 0 {
		hopts = append(hopts, server.WithReadTimeout(opts.ReadTimeout))
	}
	if opts.MaxBodyBytes > 0 {
		hopts = append(hopts, server.WithMaxRequestBodySize(opts.MaxBodyBytes))
	}

	s := &Server{svc: svc, h: server.New(hopts...)}
	s.h.Use(recovery.Recovery(), accessLog())
	s.register(opts.JWTSecret)
	return s
}

// Engine exposes the router for in-process requests.
func (s *Server) Engine() *route.Engine {
	return s.h.Engine
}

// Run serves until the process receives SIGINT or SIGTERM.
func (s *Server) Run() {
	logx.Infow("http server listening", logx.Field("addr", s.h.GetOptions().Addr))
	s.h.Spin()
}

func (s *Server) register(jwtSecret string) {
	s.h.GET("/healthz", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(200, map[string]string{"status": "ok"})
	})

	var api *route.RouterGroup
	if jwtSecret != "" {
		api = s.h.Group("/api", requireToken(jwtSecret))
	} else {
		api = s.h.Group("/api")
	}

	iv := api.Group("/interview")
	iv.POST("/turn", s.submitTurn)
	iv.POST("/hint", s.requestHint)
	iv.GET("/sessions/:id", s.getSession)

	rm := api.Group("/roadmaps")
	rm.POST("", s.generateRoadmap)
	rm.GET("", s.listRoadmaps)
	rm.GET("/:id", s.getRoadmap)

	pg := api.Group("/progress")
	pg.POST("/milestones/:id/start", s.startMilestone)
	pg.POST("/milestones/:id/complete", s.completeMilestone)
	pg.POST("/quizzes/:id/submit", s.submitQuiz)
	pg.POST("/resources/:id/view", s.viewResource)
	pg.POST("/daily", s.updateDaily)
	pg.GET("/daily", s.dailyGoal)
	pg.GET("/stats", s.stats)

	api.GET("/leaderboard", s.leaderboard)

	api.POST("/resumes", s.uploadResume)
	api.POST("/analyses", s.analyze)
	api.GET("/analyses", s.listAnalyses)

	api.POST("/mentor", s.askMentor)
}

func accessLog() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)
		logx.WithContext(ctx).Infow("http request",
			logx.Field("method", string(c.Method())),
			logx.Field("path", string(c.Path())),
			logx.Field("status", c.Response.StatusCode()),
			logx.Field("latency", time.Since(start).String()))
	}
}
