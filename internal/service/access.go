package service

import (
	"context"

	"github.com/flrdepot/crm-backend/internal/cache"
	"github.com/flrdepot/crm-backend/internal/logger"
	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/reqctx"
	"github.com/flrdepot/crm-backend/internal/repository"
	"go.uber.org/zap"
)

// Identity is the authenticated caller as carried by the access token.
type Identity struct {
	UserID uint64
	Role   model.Role
}

type Action string

const (
	ActionListProducts       Action = "list_products"
	ActionManageProducts     Action = "manage_products"
	ActionDeleteProduct      Action = "delete_product"
	ActionManageParties      Action = "manage_parties"
	ActionDeleteParty        Action = "delete_party"
	ActionCreateOrder        Action = "create_order"
	ActionListOrders         Action = "list_orders"
	ActionReadOrder          Action = "read_order"
	ActionUpdateOrderStatus  Action = "update_order_status"
	ActionCreateComplaint    Action = "create_complaint"
	ActionListComplaints     Action = "list_complaints"
	ActionUpdateComplaint    Action = "update_complaint"
	ActionManageTransactions Action = "manage_transactions"
	ActionViewReports        Action = "view_reports"
	ActionViewNotifications  Action = "view_notifications"
)

var staffActions = map[Action]bool{
	ActionListProducts:       true,
	ActionManageProducts:     true,
	ActionManageParties:      true,
	ActionCreateOrder:        true,
	ActionListOrders:         true,
	ActionReadOrder:          true,
	ActionUpdateOrderStatus:  true,
	ActionCreateComplaint:    true,
	ActionListComplaints:     true,
	ActionUpdateComplaint:    true,
	ActionManageTransactions: true,
	ActionViewReports:        true,
	ActionViewNotifications:  true,
}

var adminActions = func() map[Action]bool {
	m := map[Action]bool{
		ActionDeleteProduct: true,
		ActionDeleteParty:   true,
	}
	for a := range staffActions {
		m[a] = true
	}
	return m
}()

// retailer actions are always narrowed to the caller's own retailer
var retailerActions = map[Action]bool{
	ActionListProducts:    true,
	ActionCreateOrder:     true,
	ActionListOrders:      true,
	ActionReadOrder:       true,
	ActionCreateComplaint: true,
	ActionListComplaints:  true,
}

var capabilities = map[model.Role]map[Action]bool{
	model.RoleAdmin:    adminActions,
	model.RoleStaff:    staffActions,
	model.RoleRetailer: retailerActions,
}

// Scope is the row predicate an authorized action runs under.
// A nil RetailerID means unrestricted.
type Scope struct {
	RetailerID *uint64
}

func (s Scope) Restricted() bool {
	return s.RetailerID != nil
}

func (s Scope) Allows(retailerID uint64) bool {
	return s.RetailerID == nil || *s.RetailerID == retailerID
}

// Gate resolves what an identity may do and over which rows.
type Gate struct {
	users repository.UserRepository
	links cache.LinkCache
}

// NewGate builds a gate. links may be nil, in which case every link lookup hits the database.
func NewGate(users repository.UserRepository, links cache.LinkCache) *Gate {
	return &Gate{users: users, links: links}
}

func (g *Gate) Authorize(ctx context.Context, id Identity, action Action) (Scope, error) {
	allowed, ok := capabilities[id.Role]
	if !ok {
		return Scope{}, forbiddenError("unknown role %q", id.Role)
	}
	if !allowed[action] {
		return Scope{}, forbiddenError("role %s may not %s", id.Role, action)
	}
	if id.Role != model.RoleRetailer || action == ActionListProducts {
		return Scope{}, nil
	}
	retailerID, err := g.linkedRetailer(ctx, id.UserID)
	if err != nil {
		return Scope{}, err
	}
	return Scope{RetailerID: &retailerID}, nil
}

func (g *Gate) linkedRetailer(ctx context.Context, userID uint64) (uint64, error) {
	if g.links != nil {
		id, ok, err := g.links.Get(ctx, userID)
		if err != nil {
			logger.Warn("link cache read failed",
				zap.Uint64("user_id", userID),
				zap.String("request_id", reqctx.RequestID(ctx)),
				zap.Error(err))
		} else if ok {
			return id, nil
		}
	}

	link, err := g.users.RetailerLink(ctx, userID)
	if err != nil {
		return 0, storageError(err)
	}
	if link == nil {
		return 0, validationError("no retailer linked to this account")
	}

	if g.links != nil {
		if err := g.links.Set(ctx, userID, *link); err != nil {
			logger.Warn("link cache write failed", zap.Uint64("user_id", userID), zap.Error(err))
		}
	}
	return *link, nil
}
