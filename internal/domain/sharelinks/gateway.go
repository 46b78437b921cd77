package sharelinks

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-health-core/internal/domain/owners"
	"pet-health-core/internal/domain/pets"
	"pet-health-core/internal/domain/records"
	"pet-health-core/internal/domain/reminders"
	"pet-health-core/internal/platform/logger"
	"pet-health-core/internal/platform/storeerr"
)

// recentRecordsLimit acota el historial médico que se expone.
const recentRecordsLimit = 10

type PetReader interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type RecordReader interface {
	ListVaccinations(ctx context.Context, petID string) ([]records.Vaccination, error)
	Recent(ctx context.Context, petID string, n int) ([]records.HealthRecord, error)
}

type ReminderReader interface {
	ListOutstanding(ctx context.Context, petID string) ([]reminders.Reminder, error)
}

type OwnerReader interface {
	Get(ctx context.Context, userID string) (owners.Profile, error)
}

// Sources son los colaboradores de solo lectura que arman la proyección.
type Sources struct {
	Pets      PetReader
	Records   RecordReader
	Reminders ReminderReader
	Owners    OwnerReader
}

// Gateway resuelve tokens para visitantes sin autenticación.
type Gateway struct {
	links   Repository
	src     Sources
	log     logger.Logger
	metrics instruments
	now     func() time.Time
}

func NewGateway(links Repository, src Sources, log logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		links:   links,
		src:     src,
		log:     log,
		metrics: newInstruments(),
		now:     time.Now,
	}
}

// Resolve valida el link, arma la proyección y recién entonces cuenta el acceso.
// El incremento es condicional en el store: si el link se revocó mientras tanto,
// la llamada falla con ErrLinkInactive y no se cuenta.
func (g *Gateway) Resolve(ctx context.Context, token string) (Projection, error) {
	p, err := g.resolve(ctx, strings.TrimSpace(token))
	switch {
	case err == nil:
		g.metrics.resolved(ctx, "ok")
	case errors.Is(err, ErrLinkNotFound):
		g.metrics.resolved(ctx, "not_found")
	case errors.Is(err, ErrLinkInactive):
		g.metrics.resolved(ctx, "inactive")
	default:
		g.metrics.resolved(ctx, "error")
	}
	return p, err
}

func (g *Gateway) resolve(ctx context.Context, token string) (Projection, error) {
	if token == "" {
		return Projection{}, ErrLinkNotFound
	}

	link, err := g.links.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return Projection{}, ErrLinkNotFound
		}
		return Projection{}, err
	}
	if !link.Usable(g.now()) {
		return Projection{}, ErrLinkInactive
	}

	proj, err := g.assemble(ctx, link)
	if err != nil {
		return Projection{}, err
	}

	count, err := g.links.IncrementAccess(ctx, link.ID, g.now())
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return Projection{}, ErrLinkInactive
		}
		return Projection{}, err
	}

	g.log.Debug("share link resolved", map[string]any{"link_id": link.ID, "pet_id": link.PetID, "access_count": count})
	return proj, nil
}

func (g *Gateway) assemble(ctx context.Context, link ShareLink) (Projection, error) {
	pet, err := g.src.Pets.GetByID(ctx, link.PetID)
	if err != nil {
		// Mascota borrada por un colaborador externo: el link deja de existir para el visitante.
		if errors.Is(err, pets.ErrNotFound) || errors.Is(err, storeerr.ErrNotFound) {
			return Projection{}, ErrLinkNotFound
		}
		return Projection{}, err
	}

	vaccines, err := g.src.Records.ListVaccinations(ctx, link.PetID)
	if err != nil {
		return Projection{}, err
	}
	history, err := g.src.Records.Recent(ctx, link.PetID, recentRecordsLimit)
	if err != nil {
		return Projection{}, err
	}
	pending, err := g.src.Reminders.ListOutstanding(ctx, link.PetID)
	if err != nil {
		return Projection{}, err
	}

	var owner SharedOwner
	profile, err := g.src.Owners.Get(ctx, link.OwnerID)
	switch {
	case err == nil:
		pub := profile.Public()
		owner = SharedOwner{FirstName: pub.FirstName, LastName: pub.LastName, Location: pub.Location}
	case errors.Is(err, owners.ErrNotFound):
		// Sin perfil cargado: se muestra vacío.
	default:
		return Projection{}, err
	}

	proj := Projection{
		Pet: PetSummary{
			ID:          pet.ID,
			Name:        pet.Name,
			Type:        string(pet.Species),
			Breed:       pet.Breed,
			Age:         pet.AgeYears(g.now()),
			Weight:      pet.Weight,
			Emoji:       pet.Emoji,
			Gender:      string(pet.Sex),
			Color:       pet.Color,
			MicrochipID: pet.Microchip,
		},
		Vaccinations:  make([]SharedVaccination, 0, len(vaccines)),
		HealthRecords: make([]SharedRecord, 0, len(history)),
		Reminders:     make([]SharedReminder, 0, len(pending)),
		Owner:         owner,
	}
	for _, v := range vaccines {
		proj.Vaccinations = append(proj.Vaccinations, SharedVaccination{
			VaccineName: v.VaccineName,
			Date:        v.Date,
			Vet:         v.Vet,
			NextDueDate: v.NextDueDate,
		})
	}
	for _, r := range history {
		if r.Status == records.StatusVoided {
			continue
		}
		proj.HealthRecords = append(proj.HealthRecords, SharedRecord{
			Title:       r.Title,
			Type:        string(r.Type),
			Date:        r.Date,
			Vet:         r.Vet,
			Description: r.Description,
		})
	}
	for _, r := range pending {
		proj.Reminders = append(proj.Reminders, SharedReminder{
			Title:     r.Title,
			Type:      string(r.Type),
			Date:      r.Date,
			Notes:     r.Notes,
			Completed: r.Completed,
		})
	}
	return proj, nil
}
