package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is returned when a submitted user lacks a name or email.
var ErrInvalid = errors.New("name and email are required")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Record, error) {
	if err := s.ready(); err != nil {
		return Record{}, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, rec Record) (Record, error) {
	if err := s.ready(); err != nil {
		return Record{}, err
	}
	if err := validate(rec); err != nil {
		return Record{}, err
	}
	return s.Repo.Create(ctx, rec)
}

func (s *Service) Update(ctx context.Context, rec Record) (Record, error) {
	if err := s.ready(); err != nil {
		return Record{}, err
	}
	if err := validate(rec); err != nil {
		return Record{}, err
	}
	existing, err := s.Repo.Get(ctx, rec.ID)
	if err != nil {
		return Record{}, err
	}
	return s.Repo.Update(ctx, mergeUpdate(existing, rec))
}

// mergeUpdate keeps the stored values of fields the update left blank. A bare name
// replaces the stored first/last split, which would otherwise contradict it.
func mergeUpdate(existing, rec Record) Record {
	keep := func(next, prev string) string {
		if next == "" {
			return prev
		}
		return next
	}
	rec.Username = keep(rec.Username, existing.Username)
	rec.Phone = keep(rec.Phone, existing.Phone)
	rec.Website = keep(rec.Website, existing.Website)
	rec.CompanyName = keep(rec.CompanyName, existing.CompanyName)
	if rec.FirstName == "" && rec.LastName == "" && rec.Name == existing.Name {
		rec.FirstName, rec.LastName = existing.FirstName, existing.LastName
	}
	return rec
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

// Seed fills an empty store with the demo users. A store that already holds users is
// left alone.
func (s *Service) Seed(ctx context.Context) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	existing, err := s.Repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, rec := range demoUsers {
		if _, err := s.Repo.Create(ctx, rec); err != nil {
			return i, fmt.Errorf("seed user %d: %w", i+1, err)
		}
	}
	return len(demoUsers), nil
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("directory service not configured")
	}
	return nil
}

func validate(rec Record) error {
	if strings.TrimSpace(rec.Name) == "" || strings.TrimSpace(rec.Email) == "" {
		return ErrInvalid
	}
	return nil
}

var demoUsers = []Record{
	{Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz", Phone: "1-770-736-8031 x56442", Website: "hildegard.org", CompanyName: "Romaguera-Crona"},
	{Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv", Phone: "010-692-6593 x09125", Website: "anastasia.net", CompanyName: "Deckow-Crist"},
	{Name: "Clementine Bauch", Username: "Samantha", Email: "Nathan@yesenia.net", Phone: "1-463-123-4447", Website: "ramiro.info", CompanyName: "Romaguera-Jacobson"},
	{Name: "Patricia Lebsack", Username: "Karianne", Email: "Julianne.OConner@kory.org", Phone: "493-170-9623 x156", Website: "kale.biz", CompanyName: "Robel-Corkery"},
	{Name: "Chelsey Dietrich", Username: "Kamren", Email: "Lucio_Hettinger@annie.ca", Phone: "(254)954-1289", Website: "demarco.info", CompanyName: "Keebler LLC"},
	{Name: "Mrs. Dennis Schulist", Username: "Leopoldo_Corkery", Email: "Karley_Dach@jasper.info", Phone: "1-477-935-8478 x6430", Website: "ola.org", CompanyName: "Considine-Lockman"},
	{Name: "Kurtis Weissnat", Username: "Elwyn.Skiles", Email: "Telly.Hoeger@billy.biz", Phone: "210.067.6132", Website: "elvis.io", CompanyName: "Johns Group"},
	{Name: "Nicholas Runolfsdottir V", Username: "Maxime_Nienow", Email: "Sherwood@rosamond.me", Phone: "586.493.6943 x140", Website: "jacynthe.com", CompanyName: "Abernathy Group"},
	{Name: "Glenna Reichert", Username: "Delphine", Email: "Chaim_McDermott@dana.io", Phone: "(775)976-6794 x41206", Website: "conrad.com", CompanyName: "Yost and Sons"},
	{Name: "Clementina DuBuque", Username: "Moriah.Stanton", Email: "Rey.Padberg@karina.biz", Phone: "024-648-3804", Website: "ambrose.net", CompanyName: "Hoeger LLC"},
}
