package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio-builder/internal/builder"
	"github.com/Zachkp/portfolio-builder/internal/content"
	"github.com/Zachkp/portfolio-builder/internal/section"
)

func (a *app) setupBuilderRoutes(r *gin.RouterGroup) {
	r.GET("/", func(c *gin.Context) {
		ws := workspaceFrom(c)
		c.HTML(http.StatusOK, "builder.html", ws.view(c.Request.Context(), ""))
	})

	// Add or remove a section
	r.POST("/sections/:id/toggle", func(c *gin.Context) {
		id, ok := sectionParam(c)
		if !ok {
			return
		}
		ws := workspaceFrom(c)
		action := actionRemove
		if ws.store.Toggle(c.Request.Context(), id) {
			action = actionAdd
		}
		a.activity.record(c.Request.Context(), a.admin.hash(ws.id), action, id)
		a.respond(c, ws, http.StatusOK, "")
	})

	// Open, switch or close the editor
	r.POST("/sections/:id/edit", func(c *gin.Context) {
		id, ok := sectionParam(c)
		if !ok {
			return
		}
		ws := workspaceFrom(c)
		if ws.store.SetEditing(c.Request.Context(), id) == id {
			a.activity.record(c.Request.Context(), a.admin.hash(ws.id), actionEdit, id)
		}
		a.respond(c, ws, http.StatusOK, "")
	})

	r.POST("/editor/close", func(c *gin.Context) {
		ws := workspaceFrom(c)
		ws.store.SetEditing(c.Request.Context(), section.None)
		a.respond(c, ws, http.StatusOK, "")
	})

	// Content editor submission
	r.POST("/content/:id", func(c *gin.Context) {
		id, ok := sectionParam(c)
		if !ok {
			return
		}
		ws := workspaceFrom(c)
		form := newSectionForm(id)
		if err := c.ShouldBind(form); err != nil {
			a.respond(c, ws, http.StatusUnprocessableEntity, "Please check the form: "+err.Error())
			return
		}
		err := ws.store.UpdateContent(c.Request.Context(), id, form.apply)
		if errors.Is(err, builder.ErrNotEditing) {
			a.respond(c, ws, http.StatusConflict, "")
			return
		}
		ws.toasts.Notify("Content saved", fmt.Sprintf("%s section has been updated.", id.Name()))
		a.activity.record(c.Request.Context(), a.admin.hash(ws.id), actionSave, id)
		a.respond(c, ws, http.StatusOK, "")
	})

	// Reset: request opens the prompt, cancel closes it, confirm wipes everything
	r.POST("/reset", func(c *gin.Context) {
		ws := workspaceFrom(c)
		if err := ws.reset.Request(c.Request.Context()); err != nil {
			a.logger.Warn("open reset prompt", "error", err)
		}
		a.respond(c, ws, http.StatusOK, "")
	})

	r.POST("/reset/cancel", func(c *gin.Context) {
		ws := workspaceFrom(c)
		if err := ws.reset.Cancel(c.Request.Context()); err != nil {
			a.logger.Warn("close reset prompt", "error", err)
		}
		a.respond(c, ws, http.StatusOK, "")
	})

	r.POST("/reset/confirm", func(c *gin.Context) {
		ws := workspaceFrom(c)
		err := ws.reset.Confirm(c.Request.Context())
		if errors.Is(err, builder.ErrNoResetPending) {
			a.respond(c, ws, http.StatusConflict, "")
			return
		}
		if err != nil {
			ws.toasts.Notify("Reset incomplete", "Your portfolio was reset, but some saved data could not be removed.")
		}
		a.activity.record(c.Request.Context(), a.admin.hash(ws.id), actionReset, section.None)
		a.respond(c, ws, http.StatusOK, "")
	})

	r.GET("/preview", func(c *gin.Context) {
		c.HTML(http.StatusOK, "preview.html", workspaceFrom(c).preview())
	})

	// Export selection and content as YAML
	r.GET("/export", func(c *gin.Context) {
		st := workspaceFrom(c).store.Snapshot()
		data, err := content.Export{Sections: st.Selected, Content: st.Content}.Encode()
		if err != nil {
			a.logger.Error("export portfolio", "error", err)
			c.String(http.StatusInternalServerError, "export failed")
			return
		}
		c.Header("Content-Disposition", "attachment; filename=portfolio.yaml")
		c.Data(http.StatusOK, "application/yaml", data)
	})

	// Contact form on the previewed portfolio
	r.POST("/contact", func(c *gin.Context) {
		if !workspaceFrom(c).store.Snapshot().Content.Contact.FormEnabled {
			c.HTML(http.StatusNotFound, "contact-error.html", gin.H{
				"error": "The contact form is not available.",
			})
			return
		}
		var form contactMessage
		if err := c.ShouldBind(&form); err != nil {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Please fill in your name, a valid email and a message.",
			})
			return
		}
		if err := a.mailer.send(form); err != nil {
			a.logger.Error("send contact email", "error", err)
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})
}

func sectionParam(c *gin.Context) (section.ID, bool) {
	id, err := section.Parse(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, err.Error())
		return section.None, false
	}
	return id, true
}

// respond re-renders the workspace for HTMX requests and redirects plain form posts back to the builder.
func (a *app) respond(c *gin.Context, ws *workspace, status int, editorErr string) {
	if c.GetHeader("HX-Request") == "true" {
		c.HTML(status, "workspace", ws.view(c.Request.Context(), editorErr))
		return
	}
	if status >= http.StatusBadRequest {
		msg := editorErr
		if msg == "" {
			msg = http.StatusText(status)
		}
		c.String(status, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
