package server

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/interview"
	"github.com/abhisek/careerpilot/internal/mentor"
	"github.com/abhisek/careerpilot/internal/resume"
	"github.com/abhisek/careerpilot/internal/roadmap"
)

// bind decodes and validates the request into req. Hertz leaves req
// unchanged when the body is empty.
func bind(ctx context.Context, c *app.RequestContext, req any) bool {
	if err := c.BindAndValidate(req); err != nil {
		respond(ctx, c, nil, apperr.Invalid("body", "invalid request body: %v", err))
		return false
	}
	return true
}

// queryLimit reads the limit query parameter, def when absent.
func queryLimit(c *app.RequestContext, def int) (int, error) {
	q := c.Query("limit")
	if q == "" {
		return def, nil
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 0 {
		return 0, apperr.Invalid("limit", "must be a non-negative number")
	}
	return n, nil
}

// owned hides a record that belongs to a user other than the caller.
func owned(c *app.RequestContext, owner, kind, id string) error {
	if caller := callerID(c, ""); caller != "" && owner != "" && owner != caller {
		return fmt.Errorf("%s %s: %w", kind, id, apperr.ErrNotFound)
	}
	return nil
}

func (s *Server) submitTurn(ctx context.Context, c *app.RequestContext) {
	var req interview.TurnInput
	if !bind(ctx, c, &req) {
		return
	}
	req.UserID = callerID(c, req.UserID)
	resp, err := s.svc.Interview.SubmitTurn(ctx, req)
	respond(ctx, c, resp, err)
}

func (s *Server) requestHint(ctx context.Context, c *app.RequestContext) {
	var req interview.HintInput
	if !bind(ctx, c, &req) {
		return
	}
	req.UserID = callerID(c, req.UserID)
	resp, err := s.svc.Interview.RequestHint(ctx, req)
	respond(ctx, c, resp, err)
}

func (s *Server) getSession(ctx context.Context, c *app.RequestContext) {
	sv, err := s.svc.Interview.GetSession(ctx, c.Param("id"))
	if err == nil {
		err = owned(c, sv.Session.UserID, "interview session", sv.Session.ID)
	}
	if err != nil {
		respond(ctx, c, nil, err)
		return
	}
	respond(ctx, c, newSessionView(sv), nil)
}

type generateRoadmapReq struct {
	Goal   string `json:"goal"`
	UserID string `json:"userId"`
}

func (s *Server) generateRoadmap(ctx context.Context, c *app.RequestContext) {
	var req generateRoadmapReq
	if !bind(ctx, c, &req) {
		return
	}
	res, err := s.svc.Roadmaps.Generate(ctx, roadmap.GenerateInput{Goal: req.Goal, UserID: callerID(c, req.UserID)})
	if err != nil {
		respond(ctx, c, nil, err)
		return
	}
	respond(ctx, c, utils.H{"success": true, "roadmapId": res.RoadmapID}, nil)
}

func (s *Server) listRoadmaps(ctx context.Context, c *app.RequestContext) {
	list, err := s.svc.Progress.RoadmapsWithProgress(ctx, callerID(c, ""))
	if err != nil {
		respond(ctx, c, nil, err)
		return
	}
	respond(ctx, c, newRoadmapSummaries(list), nil)
}

func (s *Server) getRoadmap(ctx context.Context, c *app.RequestContext) {
	rm, err := s.svc.Roadmaps.Get(ctx, c.Param("id"))
	if err == nil {
		err = owned(c, rm.UserID, "roadmap", rm.ID)
	}
	if err != nil {
		respond(ctx, c, nil, err)
		return
	}
	respond(ctx, c, newRoadmapView(rm), nil)
}

type userBody struct {
	UserID string `json:"userId"`
}

func (s *Server) startMilestone(ctx context.Context, c *app.RequestContext) {
	var req userBody
	if !bind(ctx, c, &req) {
		return
	}
	resp, err := s.svc.Progress.StartMilestone(ctx, callerID(c, req.UserID), c.Param("id"))
	respond(ctx, c, resp, err)
}

func (s *Server) completeMilestone(ctx context.Context, c *app.RequestContext) {
	var req userBody
	if !bind(ctx, c, &req) {
		return
	}
	resp, err := s.svc.Progress.CompleteMilestone(ctx, callerID(c, req.UserID), c.Param("id"))
	respond(ctx, c, resp, err)
}

type submitQuizReq struct {
	UserID        string `json:"userId"`
	SelectedIndex *int   `json:"selectedIndex"`
}

func (s *Server) submitQuiz(ctx context.Context, c *app.RequestContext) {
	var req submitQuizReq
	if !bind(ctx, c, &req) {
		return
	}
	if req.SelectedIndex == nil {
		respond(ctx, c, nil, apperr.Invalid("selectedIndex", "selectedIndex is required"))
		return
	}
	resp, err := s.svc.Progress.SubmitQuiz(ctx, callerID(c, req.UserID), c.Param("id"), *req.SelectedIndex)
	respond(ctx, c, resp, err)
}

func (s *Server) viewResource(ctx context.Context, c *app.RequestContext) {
	var req userBody
	if !bind(ctx, c, &req) {
		return
	}
	resp, err := s.svc.Progress.MarkResourceViewed(ctx, callerID(c, req.UserID), c.Param("id"))
	respond(ctx, c, resp, err)
}

type dailyReq struct {
	UserID        string `json:"userId"`
	MinsSpent     int    `json:"minsSpent" vd:"$>=0; msg:'minsSpent must not be negative'"`
	QuizzesSolved int    `json:"quizzesSolved" vd:"$>=0; msg:'quizzesSolved must not be negative'"`
}

func (s *Server) updateDaily(ctx context.Context, c *app.RequestContext) {
	var req dailyReq
	if !bind(ctx, c, &req) {
		return
	}
	resp, err := s.svc.Progress.UpdateDailyProgress(ctx, callerID(c, req.UserID), req.MinsSpent, req.QuizzesSolved)
	respond(ctx, c, resp, err)
}

func (s *Server) dailyGoal(ctx context.Context, c *app.RequestContext) {
	resp, err := s.svc.Progress.DailyGoal(ctx, callerID(c, ""))
	respond(ctx, c, resp, err)
}

func (s *Server) stats(ctx context.Context, c *app.RequestContext) {
	resp, err := s.svc.Progress.Stats(ctx, callerID(c, ""))
	respond(ctx, c, resp, err)
}

func (s *Server) leaderboard(ctx context.Context, c *app.RequestContext) {
	limit, err := queryLimit(c, 0)
	if err != nil {
		respond(ctx, c, nil, err)
		return
	}
	entries, err := s.svc.Progress.Leaderboard(ctx, limit)
	if err != nil {
		respond(ctx, c, nil, err)
		return
	}
	respond(ctx, c, newLeaderboard(entries), nil)
}

func (s *Server) uploadResume(ctx context.Context, c *app.RequestContext) {
	fh, err := c.FormFile("file")
	if err != nil {
		respond(ctx, c, nil, apperr.Invalid("file", "no file uploaded"))
		return
	}
	if fh.Size > resume.MaxUploadBytes {
		respond(ctx, c, nil, apperr.Invalid("file", "exceeds %d bytes", resume.MaxUploadBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond(ctx, c, nil, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respond(ctx, c, nil, fmt.Errorf("read upload: %w", err))
		return
	}

	res, err := s.svc.Resumes.Upload(ctx, resume.UploadInput{
		UserID:   callerID(c, string(c.FormValue("userId"))),
		FileName: fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Data:     data,
	})
	respond(ctx, c, res, err)
}

func (s *Server) analyze(ctx context.Context, c *app.RequestContext) {
	var req resume.AnalyzeRequest
	if !bind(ctx, c, &req) {
		return
	}
	req.UserID = callerID(c, req.UserID)
	res, err := s.svc.Resumes.Analyze(ctx, req)
	respond(ctx, c, res, err)
}

func (s *Server) listAnalyses(ctx context.Context, c *app.RequestContext) {
	limit, err := queryLimit(c, 20)
	if err != nil {
		respond(ctx, c, nil, err)
		return
	}
	list, err := s.svc.Resumes.History(ctx, callerID(c, ""), limit)
	if err != nil {
		respond(ctx, c, nil, err)
		return
	}
	respond(ctx, c, newAnalysisViews(list), nil)
}

func (s *Server) askMentor(ctx context.Context, c *app.RequestContext) {
	var req mentor.Request
	if !bind(ctx, c, &req) {
		return
	}
	req.UserID = callerID(c, req.UserID)
	reply, err := s.svc.Mentor.Ask(ctx, req)
	respond(ctx, c, reply, err)
}
