package department

import "context"

type StoreAPI interface {
	List(ctx context.Context) ([]Department, error)
	Create(ctx context.Context, dept Department) error
	Update(ctx context.Context, code string, name, parentCode *string) error
	Delete(ctx context.Context, code string) error
	SearchMembers(ctx context.Context, keyword string, limit, offset int) ([]Member, error)
	MembersOf(ctx context.Context, departmentCode string) ([]Member, error)
}

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Hierarchy folds the flat department list into parent/child trees. Roots are
// departments without a parent or whose parent is missing.
func (s *Service) Hierarchy(ctx context.Context) ([]*Node, error) {
	departments, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildHierarchy(departments), nil
}

func BuildHierarchy(departments []Department) []*Node {
	nodes := make(map[string]*Node, len(departments))
	for _, dept := range departments {
		nodes[dept.Code] = &Node{Department: dept}
	}

	var roots []*Node
	for _, dept := range departments {
		node := nodes[dept.Code]
		parent, ok := nodes[dept.ParentCode]
		if dept.ParentCode == "" || !ok || dept.ParentCode == dept.Code {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

func (s *Service) List(ctx context.Context) ([]Department, error) {
	return s.Store.List(ctx)
}

func (s *Service) Create(ctx context.Context, dept Department) error {
	return s.Store.Create(ctx, dept)
}

func (s *Service) Update(ctx context.Context, code string, name, parentCode *string) error {
	return s.Store.Update(ctx, code, name, parentCode)
}

func (s *Service) Delete(ctx context.Context, code string) error {
	return s.Store.Delete(ctx, code)
}

func (s *Service) SearchMembers(ctx context.Context, keyword string, limit, offset int) ([]Member, error) {
	return s.Store.SearchMembers(ctx, keyword, limit, offset)
}

func (s *Service) MembersOf(ctx context.Context, departmentCode string) ([]Member, error) {
	return s.Store.MembersOf(ctx, departmentCode)
}
