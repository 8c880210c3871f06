package relay

import (
	"autobot/models"
	"autobot/tools"

	"github.com/jinzhu/gorm"
)

// captureLead scans inbound text for contact details. Best-effort: a
// failure here never touches the reply path.
func (e *Engine) captureLead(tenantID int64, customerID, message string) {
	contact := tools.ExtractContact(message)
	if contact == "" {
		return
	}

	var existing models.Lead
	err := e.db.Where("tenant_id = ? AND contact = ?", tenantID, contact).First(&existing).Error
	if err == nil {
		// returning contact: refresh the triggering message only
		if uerr := e.db.Model(&models.Lead{}).
			Where("id = ?", existing.ID).
			Update("last_message", message).Error; uerr != nil {
			e.log.Warn("lead update failed", "tenant_id", tenantID, "contact", contact, "error", uerr)
		}
		return
	}
	if !gorm.IsRecordNotFoundError(err) {
		e.log.Warn("lead lookup failed", "tenant_id", tenantID, "contact", contact, "error", err)
		return
	}

	lead := models.Lead{
		TenantID:           tenantID,
		Contact:            contact,
		LastMessage:        message,
		CustomerIdentifier: customerID,
		Status:             models.LEAD_STATUS_NEW,
	}
	if cerr := e.db.Create(&lead).Error; cerr != nil {
		e.log.Warn("lead create failed", "tenant_id", tenantID, "contact", contact, "error", cerr)
		return
	}
	e.log.Info("lead captured", "tenant_id", tenantID, "contact", contact)
}
