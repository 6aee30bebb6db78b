// Package api exposes the score tracker to a host UI over plain JSON
// endpoints. It holds no game logic of its own: every route delegates to the
// game manager and maps its errors onto HTTP statuses.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pointsplit/2468/internal/game"
)

type Server struct {
	manager *game.Manager
	log     zerolog.Logger
}

func New(manager *game.Manager, log zerolog.Logger) *Server {
	return &Server{manager: manager, log: log}
}

// Mount registers all routes on the engine.
func (s *Server) Mount(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/players", s.listPlayers)
	api.POST("/players", s.createPlayer)
	api.PUT("/players/:id", s.updatePlayer)
	api.DELETE("/players/:id", s.deletePlayer)

	api.GET("/settings", s.getSettings)
	api.PUT("/settings", s.putSettings)

	api.GET("/games", s.listGames)
	api.POST("/games", s.createGame)
	api.GET("/games/:id", s.getGame)
	api.DELETE("/games/:id", s.deleteGame)

	api.PUT("/games/:id/areas/:areaId/multiplier", s.setMultiplier)
	api.POST("/games/:id/areas/:areaId/toggle", s.togglePlayer)
	api.PUT("/games/:id/areas/:areaId/dualhand", s.setDualHand)

	api.POST("/games/:id/rounds/save", s.saveRound)
	api.POST("/games/:id/rounds/next", s.nextRound)
	api.POST("/games/:id/rounds/previous", s.previousRound)
	api.POST("/games/:id/rounds/advance", s.advanceRound)
	api.DELETE("/games/:id/rounds/:number", s.deleteRound)

	api.GET("/games/:id/cashout", s.cashout)
}

func (s *Server) listPlayers(c *gin.Context) {
	players, err := s.manager.Players(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}

func (s *Server) createPlayer(c *gin.Context) {
	var p game.Player
	if err := c.BindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_player"})
		return
	}
	created, err := s.manager.AddPlayer(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updatePlayer(c *gin.Context) {
	var p game.Player
	if err := c.BindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_player"})
		return
	}
	p.ID = c.Param("id")
	if err := s.manager.UpdatePlayer(c.Request.Context(), p); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) deletePlayer(c *gin.Context) {
	if err := s.manager.DeletePlayer(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.manager.Settings(c.Request.Context()))
}

func (s *Server) putSettings(c *gin.Context) {
	var settings game.Settings
	if err := c.BindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_settings"})
		return
	}
	if err := s.manager.SaveSettings(c.Request.Context(), settings); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) listGames(c *gin.Context) {
	games, err := s.manager.Games(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (s *Server) createGame(c *gin.Context) {
	var req struct {
		PlayerIDs []string `json:"playerIds"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_roster"})
		return
	}
	state, err := s.manager.CreateGame(c.Request.Context(), req.PlayerIDs)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

func (s *Server) getGame(c *gin.Context) {
	state, err := s.manager.Game(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) deleteGame(c *gin.Context) {
	if err := s.manager.DeleteGame(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) setMultiplier(c *gin.Context) {
	var req struct {
		Multiplier int  `json:"multiplier"`
		ApplyToAll bool `json:"applyToAll"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_multiplier"})
		return
	}
	state, err := s.manager.SetAreaMultiplier(c.Request.Context(), c.Param("id"), c.Param("areaId"), req.Multiplier, req.ApplyToAll)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) togglePlayer(c *gin.Context) {
	var req struct {
		PlayerID string `json:"playerId"`
		Hand     string `json:"hand,omitempty"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_toggle"})
		return
	}

	ctx := c.Request.Context()
	gameID, areaID := c.Param("id"), c.Param("areaId")
	var (
		state game.CurrentState
		err   error
	)
	if req.Hand != "" {
		state, err = s.manager.ToggleAreaHandPlayer(ctx, gameID, areaID, req.Hand, req.PlayerID)
	} else {
		state, err = s.manager.ToggleAreaPlayer(ctx, gameID, areaID, req.PlayerID)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) setDualHand(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_dualhand"})
		return
	}
	state, err := s.manager.SetAreaDualHand(c.Request.Context(), c.Param("id"), c.Param("areaId"), req.Enabled)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) saveRound(c *gin.Context) {
	s.roundOp(c, s.manager.SaveRound)
}

func (s *Server) nextRound(c *gin.Context) {
	s.roundOp(c, s.manager.NextRound)
}

func (s *Server) previousRound(c *gin.Context) {
	s.roundOp(c, s.manager.PreviousRound)
}

func (s *Server) advanceRound(c *gin.Context) {
	s.roundOp(c, s.manager.AdvanceRound)
}

func (s *Server) deleteRound(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_round"})
		return
	}
	state, err := s.manager.DeleteRound(c.Request.Context(), c.Param("id"), number)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) cashout(c *gin.Context) {
	totals, settlements, err := s.manager.Cashout(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totals":    totals,
		"direct":    settlements.Direct,
		"optimized": settlements.Optimized,
	})
}

func (s *Server) roundOp(c *gin.Context, op func(ctx context.Context, gameID string) (game.CurrentState, error)) {
	state, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// fail maps manager errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, game.ErrRoundNotFound),
		errors.Is(err, game.ErrAreaNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrInvalidMultiplier),
		errors.Is(err, game.ErrRosterTooSmall),
		errors.Is(err, game.ErrDualHandUnsupported),
		errors.Is(err, game.ErrUnknownHand):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
