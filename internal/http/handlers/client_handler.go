package handlers

import (
	"errors"
	"io/fs"
	"os"

	"github.com/gofiber/fiber/v2"

	applog "github.com/engYuns/rengintech/internal/log"
	"github.com/engYuns/rengintech/internal/repos"
	"github.com/engYuns/rengintech/internal/services"
	"github.com/engYuns/rengintech/internal/validate"
)

type ClientHandler struct {
	Store repos.Storage
	Logos *services.LogoStore
}

// GET /api/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	clients, err := h.Store.GetAllClients(c.UserContext())
	if err != nil {
		return fail(c, "clients.list", "client", "Failed to fetch clients", err)
	}
	return c.JSON(clients)
}

// GET /api/clients/:id
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c, "client")
	}
	client, err := h.Store.GetClient(c.UserContext(), id)
	if err != nil {
		return fail(c, "clients.get", "client", "Failed to fetch client", err)
	}
	return c.JSON(client)
}

// POST /api/clients (JSON, or multipart with an optional "logo" file)
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	in, err := input(c)
	if err != nil {
		return fail(c, "clients.create", "client", "Failed to create client", err)
	}
	payload, err := validate.Client(in)
	if err != nil {
		return fail(c, "clients.create", "client", "Failed to create client", err)
	}

	saved := ""
	if fh, ferr := c.FormFile("logo"); ferr == nil && fh != nil {
		if h.Logos == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Logo uploads are disabled"})
		}
		path, url, terr := h.Logos.Target(fh)
		if terr != nil {
			applog.Security(c, "upload.reject", map[string]any{"file": fh.Filename, "size": fh.Size})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid logo file"})
		}
		if err := c.SaveFile(fh, path); err != nil {
			return fail(c, "clients.logo.save", "client", "Failed to store logo", &repos.PersistenceError{Op: "save logo", Err: err})
		}
		saved = path
		payload.LogoURL = &url
	}

	client, err := h.Store.CreateClient(c.UserContext(), payload)
	if err != nil {
		// nothing references the logo now
		if saved != "" {
			if rerr := os.Remove(saved); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
				applog.Error(c, "clients.logo.cleanup.fail", rerr, map[string]any{"path": saved})
			}
		}
		return fail(c, "clients.create", "client", "Failed to create client", err)
	}
	applog.Audit(c, "clients.create", map[string]any{"client_id": client.ID, "name": client.Name})
	return c.JSON(client)
}

// PATCH /api/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c, "client")
	}
	in, err := input(c)
	if err != nil {
		return fail(c, "clients.update", "client", "Failed to update client", err)
	}
	patch, err := validate.ClientPatch(in)
	if err != nil {
		return fail(c, "clients.update", "client", "Failed to update client", err)
	}
	client, err := h.Store.UpdateClient(c.UserContext(), id, patch)
	if err != nil {
		return fail(c, "clients.update", "client", "Failed to update client", err)
	}
	applog.Audit(c, "clients.update", map[string]any{"client_id": id})
	return c.JSON(client)
}

// DELETE /api/clients/:id
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c, "client")
	}
	removed, err := h.Store.DeleteClient(c.UserContext(), id)
	if err != nil {
		return fail(c, "clients.delete", "client", "Failed to delete client", err)
	}
	if !removed {
		return notFound(c, "client")
	}
	applog.Audit(c, "clients.delete", map[string]any{"client_id": id})
	return c.JSON(fiber.Map{"success": true})
}

// GET /uploads/*
func (h *ClientHandler) Logo(c *fiber.Ctx) error {
	if h.Logos == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	rel := c.Params("*")
	full, ok := h.Logos.Resolve(rel)
	if !ok {
		applog.Security(c, "uploads.traversal.block", map[string]any{"path": rel})
		return c.SendStatus(fiber.StatusNotFound)
	}
	if st, err := os.Stat(full); err != nil || st.IsDir() {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendFile(full)
}
