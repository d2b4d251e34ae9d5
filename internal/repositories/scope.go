package repositories

import "fmt"

// ScopeKind names how a row reaches its owning user.
type ScopeKind int

const (
	// ScopeOwner: the row carries owner_id itself (properties, tenants).
	ScopeOwner ScopeKind = iota
	// ScopePropertyOwner: the row carries property_id (units).
	ScopePropertyOwner
	// ScopeUnitOwner: the row carries unit_id (leases, maintenance requests).
	ScopeUnitOwner
	// ScopeLeaseOwner: the row carries lease_id (invoices).
	ScopeLeaseOwner
	// ScopeTenantOwner: the row carries tenant_id (screening results).
	ScopeTenantOwner
)

// OwnerScope renders the ownership predicate for a table alias. Every
// owner-scoped query appends one of these to its WHERE clause so that rows
// owned by someone else are indistinguishable from missing rows.
type OwnerScope struct {
	Kind  ScopeKind
	Alias string
}

var (
	propertyScope    = OwnerScope{Kind: ScopeOwner, Alias: "p"}
	tenantScope      = OwnerScope{Kind: ScopeOwner, Alias: "t"}
	unitScope        = OwnerScope{Kind: ScopePropertyOwner, Alias: "un"}
	leaseScope       = OwnerScope{Kind: ScopeUnitOwner, Alias: "l"}
	maintenanceScope = OwnerScope{Kind: ScopeUnitOwner, Alias: "m"}
	invoiceScope     = OwnerScope{Kind: ScopeLeaseOwner, Alias: "i"}
	screeningScope   = OwnerScope{Kind: ScopeTenantOwner, Alias: "s"}
)

// SQL returns the predicate with the owner id bound to placeholder $arg.
func (s OwnerScope) SQL(arg int) string {
	switch s.Kind {
	case ScopePropertyOwner:
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM properties op WHERE op.id = %s.property_id AND op.owner_id = $%d)",
			s.Alias, arg)
	case ScopeUnitOwner:
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM units ou JOIN properties op ON op.id = ou.property_id WHERE ou.id = %s.unit_id AND op.owner_id = $%d)",
			s.Alias, arg)
	case ScopeLeaseOwner:
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM leases ol JOIN units ou ON ou.id = ol.unit_id JOIN properties op ON op.id = ou.property_id WHERE ol.id = %s.lease_id AND op.owner_id = $%d)",
			s.Alias, arg)
	case ScopeTenantOwner:
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM tenants ot WHERE ot.id = %s.tenant_id AND ot.owner_id = $%d)",
			s.Alias, arg)
	default:
		return fmt.Sprintf("%s.owner_id = $%d", s.Alias, arg)
	}
}
