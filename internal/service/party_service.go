package service

import (
	"context"
	"strings"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/repository"
)

// PartyInput carries retailer or customer fields; nil fields are left unchanged on update.
// ContactName is ignored for customers.
type PartyInput struct {
	Name        *string
	ContactName *string
	Phone       *string
	Email       *string
	Address     *string
}

type PartyService interface {
	ListRetailers(ctx context.Context, id Identity) ([]model.Retailer, error)
	GetRetailer(ctx context.Context, id Identity, retailerID uint64) (*model.Retailer, error)
	CreateRetailer(ctx context.Context, id Identity, in PartyInput) (*model.Retailer, error)
	UpdateRetailer(ctx context.Context, id Identity, retailerID uint64, in PartyInput) (*model.Retailer, error)
	DeleteRetailer(ctx context.Context, id Identity, retailerID uint64) error

	ListCustomers(ctx context.Context, id Identity) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id Identity, customerID uint64) (*model.Customer, error)
	CreateCustomer(ctx context.Context, id Identity, in PartyInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id Identity, customerID uint64, in PartyInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id Identity, customerID uint64) error
}

type partyService struct {
	gate      *Gate
	retailers repository.RetailerRepository
	customers repository.CustomerRepository
}

func NewPartyService(gate *Gate, retailers repository.RetailerRepository, customers repository.CustomerRepository) PartyService {
	return &partyService{gate: gate, retailers: retailers, customers: customers}
}

func (s *partyService) ListRetailers(ctx context.Context, id Identity) ([]model.Retailer, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageParties); err != nil {
		return nil, err
	}
	list, err := s.retailers.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *partyService) GetRetailer(ctx context.Context, id Identity, retailerID uint64) (*model.Retailer, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageParties); err != nil {
		return nil, err
	}
	return s.findRetailer(ctx, retailerID)
}

func (s *partyService) CreateRetailer(ctx context.Context, id Identity, in PartyInput) (*model.Retailer, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageParties); err != nil {
		return nil, err
	}
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	r := &model.Retailer{
		Name:        name,
		ContactName: optional(in.ContactName),
		Phone:       optional(in.Phone),
		Email:       optional(in.Email),
		Address:     optional(in.Address),
	}
	if err := s.retailers.Create(ctx, r); err != nil {
		return nil, storageError(err)
	}
	return r, nil
}

func (s *partyService) UpdateRetailer(ctx context.Context, id Identity, retailerID uint64, in PartyInput) (*model.Retailer, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageParties); err != nil {
		return nil, err
	}
	fields, err := partyFields(in, true)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.retailers.Update(ctx, retailerID, fields); err != nil {
			if repository.IsNotFound(err) {
				return nil, notFoundError("retailer %d not found", retailerID)
			}
			return nil, storageError(err)
		}
	}
	return s.findRetailer(ctx, retailerID)
}

func (s *partyService) DeleteRetailer(ctx context.Context, id Identity, retailerID uint64) error {
	if _, err := s.gate.Authorize(ctx, id, ActionDeleteParty); err != nil {
		return err
	}
	if _, err := s.findRetailer(ctx, retailerID); err != nil {
		return err
	}
	referenced, err := s.retailers.IsReferenced(ctx, retailerID)
	if err != nil {
		return storageError(err)
	}
	if referenced {
		return conflictError("retailer %d is still referenced", retailerID)
	}
	if err := s.retailers.Delete(ctx, retailerID); err != nil {
		if repository.IsNotFound(err) {
			return notFoundError("retailer %d not found", retailerID)
		}
		return storageError(err)
	}
	return nil
}

func (s *partyService) ListCustomers(ctx context.Context, id Identity) ([]model.Customer, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageParties); err != nil {
		return nil, err
	}
	list, err := s.customers.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *partyService) GetCustomer(ctx context.Context, id Identity, customerID uint64) (*model.Customer, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageParties); err != nil {
		return nil, err
	}
	return s.findCustomer(ctx, customerID)
}

func (s *partyService) CreateCustomer(ctx context.Context, id Identity, in PartyInput) (*model.Customer, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageParties); err != nil {
		return nil, err
	}
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	c := &model.Customer{
		Name:    name,
		Phone:   optional(in.Phone),
		Email:   optional(in.Email),
		Address: optional(in.Address),
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, storageError(err)
	}
	return c, nil
}

func (s *partyService) UpdateCustomer(ctx context.Context, id Identity, customerID uint64, in PartyInput) (*model.Customer, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageParties); err != nil {
		return nil, err
	}
	fields, err := partyFields(in, false)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.customers.Update(ctx, customerID, fields); err != nil {
			if repository.IsNotFound(err) {
				return nil, notFoundError("customer %d not found", customerID)
			}
			return nil, storageError(err)
		}
	}
	return s.findCustomer(ctx, customerID)
}

func (s *partyService) DeleteCustomer(ctx context.Context, id Identity, customerID uint64) error {
	if _, err := s.gate.Authorize(ctx, id, ActionDeleteParty); err != nil {
		return err
	}
	if _, err := s.findCustomer(ctx, customerID); err != nil {
		return err
	}
	referenced, err := s.customers.IsReferenced(ctx, customerID)
	if err != nil {
		return storageError(err)
	}
	if referenced {
		return conflictError("customer %d is still referenced", customerID)
	}
	if err := s.customers.Delete(ctx, customerID); err != nil {
		if repository.IsNotFound(err) {
			return notFoundError("customer %d not found", customerID)
		}
		return storageError(err)
	}
	return nil
}

func (s *partyService) findRetailer(ctx context.Context, retailerID uint64) (*model.Retailer, error) {
	r, err := s.retailers.FindByID(ctx, retailerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("retailer %d not found", retailerID)
		}
		return nil, storageError(err)
	}
	return r, nil
}

func (s *partyService) findCustomer(ctx context.Context, customerID uint64) (*model.Customer, error) {
	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("customer %d not found", customerID)
		}
		return nil, storageError(err)
	}
	return c, nil
}

func requiredName(name *string) (string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return "", validationError("name is required")
	}
	return strings.TrimSpace(*name), nil
}

// optional turns blank strings into NULL.
func optional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func partyFields(in PartyInput, withContact bool) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		name, err := requiredName(in.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if withContact && in.ContactName != nil {
		fields["contact_name"] = optional(in.ContactName)
	}
	if in.Phone != nil {
		fields["phone"] = optional(in.Phone)
	}
	if in.Email != nil {
		fields["email"] = optional(in.Email)
	}
	if in.Address != nil {
		fields["address"] = optional(in.Address)
	}
	return fields, nil
}
