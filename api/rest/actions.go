package rest

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/dungeon-crawler/server/audit"
	"github.com/kawasemi/dungeon-crawler/server/config"
	"github.com/kawasemi/dungeon-crawler/server/game/battle"
	"github.com/kawasemi/dungeon-crawler/server/game/dungeon"
	"github.com/kawasemi/dungeon-crawler/server/game/enemy"
	"github.com/kawasemi/dungeon-crawler/server/game/level"
	mw "github.com/kawasemi/dungeon-crawler/server/middleware"
	"github.com/kawasemi/dungeon-crawler/server/save"
	"go.uber.org/zap"
)

// ActionHandler runs the server-side game rules that mutate a save: walking
// the dungeon, camping and applying battle outcomes. Plain state reads and
// writes live on SaveHandler; these routes exist so clients cannot forge
// steps or rewards.
type ActionHandler struct {
	store  *save.Store
	audit  *audit.Service
	game   config.GameConfig
	tiles  *dungeon.Map
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewActionHandler creates a new ActionHandler. rng may be seeded
// deterministically in tests.
func NewActionHandler(store *save.Store, aud *audit.Service, game config.GameConfig, rng *rand.Rand, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{
		store:  store,
		audit:  aud,
		game:   game,
		tiles:  dungeon.New(dungeon.DefaultMap),
		logger: logger,
		rng:    rng,
	}
}

func (h *ActionHandler) record(c *gin.Context, slot int, action string, req, resp interface{}, start time.Time, err error) {
	if h.audit == nil {
		return
	}
	entry := audit.Entry{
		TraceID:    mw.GetTraceID(c),
		ClientID:   mw.GetClientID(c),
		Slot:       slot,
		Action:     action,
		Request:    req,
		Response:   resp,
		IP:         c.ClientIP(),
		DurationMs: int(time.Since(start).Milliseconds()),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	h.audit.Log(entry)
}

type stepRequest struct {
	Turn string `json:"turn" binding:"omitempty,oneof=left right"`
}

// Step handles POST /api/saves/:slot/step. With a turn the player rotates
// in place; otherwise one step forward is attempted. Walls leave the
// position untouched and cost no step. A successful step may roll a random
// encounter.
func (h *ActionHandler) Step(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := time.Now()
	ctx := c.Request.Context()

	progress, err := h.store.GetProgress(ctx, slot)
	if err != nil {
		storeError(c, err)
		return
	}
	if progress == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "save not found"})
		return
	}

	if req.Turn != "" {
		dir := dungeon.TurnLeft(progress.PlayerDir)
		if req.Turn == "right" {
			dir = dungeon.TurnRight(progress.PlayerDir)
		}
		err = h.store.UpdateProgress(ctx, slot, save.ProgressUpdate{PlayerDir: &dir})
		h.record(c, slot, "action.turn", req, gin.H{"dir": dir}, start, err)
		if err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"x": progress.PlayerX, "y": progress.PlayerY,
			"dir": dir, "moved": false,
		})
		return
	}

	nx, ny, moved := h.tiles.Step(progress.PlayerX, progress.PlayerY, progress.PlayerDir)
	resp := gin.H{"x": nx, "y": ny, "dir": progress.PlayerDir, "moved": moved}

	if moved {
		player, err := h.store.GetPlayer(ctx, slot)
		if err != nil {
			storeError(c, err)
			return
		}
		if player == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "save not found"})
			return
		}

		if err := h.store.UpdateProgress(ctx, slot, save.ProgressUpdate{PlayerX: &nx, PlayerY: &ny}); err != nil {
			storeError(c, err)
			return
		}
		steps := player.Steps + 1
		if err := h.store.UpdatePlayer(ctx, slot, save.PlayerUpdate{Steps: &steps}); err != nil {
			storeError(c, err)
			return
		}
		resp["steps"] = steps

		h.mu.Lock()
		encounter := dungeon.RollEncounter(h.game.EncounterRate, h.rng)
		if encounter {
			resp["encounter"] = enemy.Spawn(progress.Floor, h.rng)
		}
		h.mu.Unlock()
	}

	h.record(c, slot, "action.step", req, resp, start, nil)
	c.JSON(http.StatusOK, resp)
}

// Camp handles POST /api/saves/:slot/camp. Resting at a base heals the
// player to the level cap and marks the base as the respawn point.
func (h *ActionHandler) Camp(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}
	start := time.Now()
	ctx := c.Request.Context()

	player, err := h.store.GetPlayer(ctx, slot)
	if err != nil {
		storeError(c, err)
		return
	}
	progress, err := h.store.GetProgress(ctx, slot)
	if err != nil {
		storeError(c, err)
		return
	}
	if player == nil || progress == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "save not found"})
		return
	}

	hp := level.MaxHP(player.Level)
	if err := h.store.UpdatePlayer(ctx, slot, save.PlayerUpdate{HP: &hp}); err != nil {
		storeError(c, err)
		return
	}
	rest := save.RestPoint{X: progress.PlayerX, Y: progress.PlayerY, Floor: progress.Floor}
	err = h.store.UpdateProgress(ctx, slot, save.ProgressUpdate{LastRestedBase: &rest})
	resp := gin.H{"hp": hp, "last_rested_base": rest}
	h.record(c, slot, "action.camp", nil, resp, start, err)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type battleEnemy struct {
	HP      int `json:"hp"      binding:"min=0"`
	Attack  int `json:"attack"  binding:"min=0"`
	Defense int `json:"defense" binding:"min=0"`
}

type attackRequest struct {
	Action string      `json:"action" binding:"required,oneof=attack defend flee"`
	Enemy  battleEnemy `json:"enemy"`
}

// Attack handles POST /api/saves/:slot/battle/attack. One combat round is
// resolved server-side against the enemy state the client carries between
// rounds: the player's roll uses level-derived stats, so a client cannot
// forge damage. Rewards still go through BattleResult once the enemy is
// down.
func (h *ActionHandler) Attack(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	var req attackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := time.Now()
	ctx := c.Request.Context()

	player, err := h.store.GetPlayer(ctx, slot)
	if err != nil {
		storeError(c, err)
		return
	}
	if player == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "save not found"})
		return
	}

	atk := level.Attack(player.Level)
	def := level.Defense(player.Level)
	dealt, taken := 0, 0
	enemyHP := req.Enemy.HP
	fled := false

	h.mu.Lock()
	switch req.Action {
	case "attack":
		dealt = battle.Damage(atk, req.Enemy.Defense, h.rng)
		enemyHP -= dealt
		if enemyHP < 0 {
			enemyHP = 0
		}
		if enemyHP > 0 {
			taken = battle.Damage(req.Enemy.Attack, def, h.rng)
		}
	case "defend":
		taken = battle.DefendedDamage(req.Enemy.Attack, def, h.rng)
	case "flee":
		fled = battle.Flee(h.rng)
		if !fled {
			taken = battle.Damage(req.Enemy.Attack, def, h.rng)
		}
	}
	h.mu.Unlock()

	hp := player.HP - taken
	if hp < 0 {
		hp = 0
	}
	if err := h.store.UpdatePlayer(ctx, slot, save.PlayerUpdate{HP: &hp}); err != nil {
		storeError(c, err)
		return
	}

	resp := gin.H{
		"action": req.Action, "dealt": dealt, "taken": taken,
		"hp": hp, "enemy_hp": enemyHP, "defeated": enemyHP == 0,
	}
	if req.Action == "flee" {
		resp["fled"] = fled
	}
	h.record(c, slot, "action.battle_attack", req, resp, start, nil)
	c.JSON(http.StatusOK, resp)
}

type battleResultRequest struct {
	Exp  int `json:"exp"  binding:"min=0"`
	Gold int `json:"gold" binding:"min=0"`
	HP   int `json:"hp"   binding:"min=0"`
}

// BattleResult handles POST /api/saves/:slot/battle/result. The client
// reports remaining HP plus the rewards of the defeated enemy; the server
// applies leveling. Gaining a level restores HP to the new cap.
func (h *ActionHandler) BattleResult(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	var req battleResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start := time.Now()
	ctx := c.Request.Context()

	player, err := h.store.GetPlayer(ctx, slot)
	if err != nil {
		storeError(c, err)
		return
	}
	if player == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "save not found"})
		return
	}

	newLevel, newExp, gained := level.Apply(player.Level, player.Exp, req.Exp)
	hp := req.HP
	if gained > 0 {
		hp = level.MaxHP(newLevel)
	}
	gold := player.Gold + req.Gold

	err = h.store.UpdatePlayer(ctx, slot, save.PlayerUpdate{
		Level: &newLevel, Exp: &newExp, HP: &hp, Gold: &gold,
	})
	resp := gin.H{
		"level": newLevel, "exp": newExp, "hp": hp, "gold": gold,
		"levels_gained": gained,
	}
	h.record(c, slot, "action.battle_result", req, resp, start, err)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
