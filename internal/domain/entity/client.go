package entity

import "strings"

// Roles válidos para Client.
const (
	RoleAdmin   = "admin"
	RoleBilling = "billing"
)

// Client sistema que consume la API de cálculo (ERP, contabilidad, tienda).
type Client struct {
	ID   string
	Role string // admin, billing
}

// Roles devuelve los roles reconocidos, en orden de menor a mayor privilegio.
func Roles() []string { return []string{RoleBilling, RoleAdmin} }

// ValidRole indica si el rol es uno de los reconocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBilling:
		return true
	}
	return false
}

// NormalizeClientID recorta espacios; un ID vacío no es válido.
func NormalizeClientID(id string) string {
	return strings.TrimSpace(id)
}
