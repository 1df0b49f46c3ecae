package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"realestate/internal/apperr"
	"realestate/internal/models"
	"realestate/internal/store"
)

type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=50"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required,max=100"`
	Message string `json:"message" binding:"required,max=1000"`
}

type ContactStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ContactReplyRequest struct {
	ReplyMessage string `json:"replyMessage" binding:"required,max=2000"`
}

// ContactUpdateRequest combines a status change and a reply.
type ContactUpdateRequest struct {
	Status       *string `json:"status"`
	ReplyMessage *string `json:"replyMessage" binding:"omitempty,max=2000"`
}

// SubmitContact accepts an anonymous message. It always starts as new.
func SubmitContact(stores store.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/contact"

		var req ContactRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
			respondWithError(c, route, apperr.Validation("required fields cannot be blank"))
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		contact := models.Contact{
			Name:    strings.TrimSpace(req.Name),
			Email:   strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:   strings.TrimSpace(req.Phone),
			Subject: strings.TrimSpace(req.Subject),
			Message: strings.TrimSpace(req.Message),
			Status:  models.ContactStatusNew,
		}
		if err := stores.Contacts.Create(ctx, &contact); err != nil {
			respondWithError(c, route, err)
			return
		}

		log.Printf("[%s] contact message %s received", route, contact.ID.Hex())
		respondMessage(c, http.StatusCreated, "Your message has been sent successfully. We will get back to you soon!", contact)
	}
}

func GetContacts(stores store.Stores, limits ListLimits) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/contact"

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := ensureDBConnection(ctx, stores.Health); err != nil {
			respondWithError(c, route, err)
			return
		}

		filter, err := parseContactFilter(c)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		opts, err := parseListOptions(c, limits, contactSortFields, contactSelectFields)
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		page, err := stores.Contacts.List(ctx, filter, opts)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		views, err := populateRepliedBy(ctx, stores.Users, page.Items)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		data, err := projectFields(views, opts.Select)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		respondList(c, opts.Page, opts.Limit, len(views), page.Total, data)
	}
}

// GetContact returns one message, moving it from new to read on first view.
func GetContact(stores store.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/contact/:id"

		raw := c.Param("id")
		id, err := parseObjectID(raw, "Contact message")
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		contact, err := stores.Contacts.MarkRead(ctx, id)
		if err != nil {
			respondWithError(c, route, storeError(err, "Contact message", raw))
			return
		}
		view, err := populateContact(ctx, stores.Users, contact)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		respondData(c, http.StatusOK, view)
	}
}

func UpdateContactStatus(stores store.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/contact/:id/status"

		raw := c.Param("id")
		id, err := parseObjectID(raw, "Contact message")
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		var req ContactStatusRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}
		if err := checkEnum("status", &req.Status, models.ContactStatuses); err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		contact, err := stores.Contacts.SetStatus(ctx, id, req.Status)
		if err != nil {
			respondWithError(c, route, storeError(err, "Contact message", raw))
			return
		}
		view, err := populateContact(ctx, stores.Users, contact)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		respondMessage(c, http.StatusOK, "Contact status updated successfully", view)
	}
}

// ReplyContact records the admin's reply and marks the message replied.
func ReplyContact(stores store.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/contact/:id/reply"
		user := sessionUser(c)

		raw := c.Param("id")
		id, err := parseObjectID(raw, "Contact message")
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		var req ContactReplyRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}
		message := strings.TrimSpace(req.ReplyMessage)
		if message == "" {
			respondWithError(c, route, apperr.Validation("replyMessage is required"))
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		contact, err := stores.Contacts.Reply(ctx, id, message, user.ID, time.Now().UTC())
		if err != nil {
			respondWithError(c, route, storeError(err, "Contact message", raw))
			return
		}
		view, err := populateContact(ctx, stores.Users, contact)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		respondMessage(c, http.StatusOK, "Reply sent successfully", view)
	}
}

// UpdateContact applies a reply and then a status change, each with the
// same effect as its dedicated endpoint.
func UpdateContact(stores store.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/contact/:id"
		user := sessionUser(c)

		raw := c.Param("id")
		id, err := parseObjectID(raw, "Contact message")
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		var req ContactUpdateRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, route, err)
			return
		}
		req.ReplyMessage = trimmed(req.ReplyMessage)
		if req.Status == nil && (req.ReplyMessage == nil || *req.ReplyMessage == "") {
			respondWithError(c, route, apperr.Validation("status or replyMessage is required"))
			return
		}
		if err := checkEnum("status", req.Status, models.ContactStatuses); err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		contact, err := stores.Contacts.FindByID(ctx, id)
		if err != nil {
			respondWithError(c, route, storeError(err, "Contact message", raw))
			return
		}
		if req.ReplyMessage != nil && *req.ReplyMessage != "" {
			if contact, err = stores.Contacts.Reply(ctx, id, *req.ReplyMessage, user.ID, time.Now().UTC()); err != nil {
				respondWithError(c, route, storeError(err, "Contact message", raw))
				return
			}
		}
		if req.Status != nil {
			if contact, err = stores.Contacts.SetStatus(ctx, id, *req.Status); err != nil {
				respondWithError(c, route, storeError(err, "Contact message", raw))
				return
			}
		}

		view, err := populateContact(ctx, stores.Users, contact)
		if err != nil {
			respondWithError(c, route, err)
			return
		}
		respondMessage(c, http.StatusOK, "Contact message updated successfully", view)
	}
}

func DeleteContact(stores store.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/contact/:id"

		raw := c.Param("id")
		id, err := parseObjectID(raw, "Contact message")
		if err != nil {
			respondWithError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := stores.Contacts.Delete(ctx, id); err != nil {
			respondWithError(c, route, storeError(err, "Contact message", raw))
			return
		}
		respondMessage(c, http.StatusOK, "Contact message deleted successfully", gin.H{})
	}
}
