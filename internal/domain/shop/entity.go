package shop

import "errors"

var (
	ErrEmptyName    = errors.New("shop name is empty")
	ErrEmptyAddress = errors.New("shop address is empty")
)

type Shop struct {
	id      int64
	name    string
	address string
}

func NewShop(id int64, name, address string) (*Shop, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if address == "" {
		return nil, ErrEmptyAddress
	}
	return &Shop{id: id, name: name, address: address}, nil
}

func (s *Shop) ID() int64       { return s.id }
func (s *Shop) Name() string    { return s.name }
func (s *Shop) Address() string { return s.address }
