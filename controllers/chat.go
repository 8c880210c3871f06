package controllers

import (
	"net/http"
	"strings"

	dbpkg "autobot/db"
	"autobot/ledger"
	"autobot/models"
	"autobot/tools"

	"github.com/gin-gonic/gin"
)

type completionInput struct {
	Messages []tools.ChatMessage `json:"messages"`
	Model    string              `json:"model"`
}

// POST /api/chat/completions (X-API-Key)
func ChatCompletion(c *gin.Context) {
	tenant, ok := GetTenantLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var in completionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, "invalid json", http.StatusBadRequest)
		return
	}

	// the relay owns the system message; only conversation turns pass
	msgs := make([]tools.ChatMessage, 0, len(in.Messages))
	for _, m := range in.Messages {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if role != "user" && role != "assistant" {
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		msgs = append(msgs, tools.ChatMessage{Role: role, Content: m.Content})
	}

	reply, usage, err := engine.Complete(c.Request.Context(), tenant, msgs, in.Model)
	if err != nil {
		respondRelayError(c, err)
		return
	}

	RespondSuccess(c, gin.H{
		"reply": reply,
		"usage": usage,
	})
}

type publicChatInput struct {
	Message      string `json:"message"`
	CustomerName string `json:"customerName"`
}

// POST /api/chat/public/:tenantId (no auth; tenant resolved by path id)
func PublicChat(c *gin.Context) {
	tenantID, ok := ParamID(c, "tenantId")
	if !ok {
		return
	}

	var in publicChatInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, "invalid json", http.StatusBadRequest)
		return
	}

	reply, remaining, customerID, err := engine.PublicChat(c.Request.Context(), tenantID, in.Message, in.CustomerName)
	if err != nil {
		respondRelayError(c, err)
		return
	}

	RespondSuccess(c, gin.H{
		"reply":              reply,
		"remainingCredits":   remaining,
		"customerIdentifier": customerID,
	})
}

// GET /api/chat/public-info/:tenantId (no auth; widget bootstrap card)
func PublicBotInfo(c *gin.Context) {
	tenantID, ok := ParamID(c, "tenantId")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	var bot models.BotConfig
	if err := db.Where("tenant_id = ?", tenantID).First(&bot).Error; err != nil {
		RespondError(c, "bot configuration not found", http.StatusNotFound)
		return
	}

	RespondSuccess(c, gin.H{
		"status":       bot.Status,
		"businessName": bot.BusinessName,
		"language":     bot.Language,
		"model":        bot.Model,
	})
}

// GET /api/chat/history (X-API-Key)
func GetChatHistory(c *gin.Context) {
	tenant, ok := GetTenantLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	convs, err := ledger.History(db, tenant.ID)
	if err != nil {
		RespondError(c, "error fetching history", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"conversations": convs})
}

// GET /api/chat/history/:id/messages (X-API-Key)
func GetConversationMessages(c *gin.Context) {
	tenant, ok := GetTenantLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	convID, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)

	var conv models.Conversation
	if err := db.First(&conv, convID).Error; err != nil || conv.TenantID != tenant.ID {
		RespondError(c, "conversation not found", http.StatusNotFound)
		return
	}

	msgs, err := ledger.Messages(db, conv.ID)
	if err != nil {
		RespondError(c, "error fetching messages", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"messages": msgs})
}
