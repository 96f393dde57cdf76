package impl

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// defaultCatalog is inserted when the servicios table is empty.
var defaultCatalog = []entity.CatalogItem{
	{Name: "Servicio de nube", Description: "Soluciones completas de computación en la nube para su empresa", Price: 300000, Icon: "bi-cloud"},
	{Name: "Servicio de seguridad", Description: "Protección avanzada contra amenazas cibernéticas y vulnerabilidades", Price: 200000, Icon: "bi-gear"},
	{Name: "Servicio aplicativos", Description: "Desarrollo de aplicaciones móviles y web personalizadas", Price: 800000, Icon: "bi-phone"},
	{Name: "Servicio de diseño web", Description: "Diseño y desarrollo de páginas web modernas y responsivas", Price: 600000, Icon: "bi-display"},
	{Name: "Hosting dedicado", Description: "Servidores dedicados con alta disponibilidad y rendimiento", Price: 150000, Icon: "bi-hdd-network"},
	{Name: "Correo corporativo", Description: "Soluciones de correo empresarial seguro y profesional", Price: 30000, Icon: "bi-envelope"},
	{Name: "Servidores VPS", Description: "Servidores privados virtuales escalables y confiables", Price: 90000, Icon: "bi-server"},
	{Name: "Dominio web", Description: "Registro y gestión de dominios web con soporte completo", Price: 20000, Icon: "bi-globe"},
	{Name: "Bases de datos", Description: "Gestión y mantenimiento de bases de datos empresariales", Price: 250000, Icon: "bi-database"},
	{Name: "Certificados SSL", Description: "Certificados de seguridad para proteger su sitio web", Price: 50000, Icon: "bi-lock"},
	{Name: "Analítica web", Description: "Análisis detallado del tráfico y rendimiento de su sitio web", Price: 130000, Icon: "bi-bar-chart"},
	{Name: "Soporte técnico", Description: "Soporte técnico especializado 24/7 para su infraestructura", Price: 100000, Icon: "bi-people"},
	{Name: "Desarrollo a medida", Description: "Desarrollo de software personalizado según sus necesidades", Price: 1300000, Icon: "bi-laptop"},
	{Name: "Pasarelas de pago", Description: "Integración segura de métodos de pago en su plataforma", Price: 200000, Icon: "bi-credit-card"},
	{Name: "Redes y conectividad", Description: "Diseño e implementación de redes empresariales", Price: 400000, Icon: "bi-wifi"},
	{Name: "Consultoría TI", Description: "Asesoría especializada en tecnologías de la información", Price: 180000, Icon: "bi-briefcase"},
	{Name: "Backups automáticos", Description: "Respaldos automatizados y recuperación de datos", Price: 70000, Icon: "bi-clipboard-data"},
	{Name: "Auditoría de seguridad", Description: "Evaluación completa de la seguridad de su infraestructura", Price: 300000, Icon: "bi-bug"},
	{Name: "Optimización web", Description: "Mejora del rendimiento y velocidad de su sitio web", Price: 350000, Icon: "bi-rocket"},
	{Name: "Infraestructura cloud", Description: "Diseño y gestión de infraestructura en la nube", Price: 450000, Icon: "bi-lightning"},
}

// bootstrapService implements the BootstrapUsecase interface.
type bootstrapService struct {
	cfg       config.SeedConfig
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	logger    *slog.Logger
}

// BootstrapServiceParams holds dependencies for BootstrapService, injected by Fx.
type BootstrapServiceParams struct {
	fx.In

	Config    *config.Config
	TxManager repository.TransactionManager
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

// NewBootstrapService is the constructor for bootstrapService.
func NewBootstrapService(params BootstrapServiceParams) usecase.BootstrapUsecase {
	return &bootstrapService{
		cfg:       params.Config.Seed,
		txManager: params.TxManager,
		hasher:    params.Hasher,
		logger:    params.Logger,
	}
}

// Seed creates the bootstrap admin when no admin exists and the default
// catalog when no item exists. Running it twice is a no-op.
func (srv *bootstrapService) Seed(ctx context.Context) (*usecase.SeedReport, error) {
	report := &usecase.SeedReport{}
	if !srv.cfg.Enabled {
		return report, nil
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := srv.seedAdmin(ctx, repoFactory.NewAccountRepository(), report); err != nil {
			return err
		}

		if !srv.cfg.Catalog {
			return nil
		}

		return srv.seedCatalog(ctx, repoFactory.NewCatalogRepository(), report)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to seed database")
	}

	if report.AdminCreated {
		srv.logger.Info("Bootstrap admin created", slog.String("email", srv.cfg.Admin.Email))
	}
	if report.CatalogItems > 0 {
		srv.logger.Info("Default catalog created", slog.Int("items", report.CatalogItems))
	}

	return report, nil
}

func (srv *bootstrapService) seedAdmin(ctx context.Context, accountRepo repository.AccountRepository, report *usecase.SeedReport) error {
	admins, err := accountRepo.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return errors.Wrap(err, "failed to count admins")
	}
	if admins > 0 || srv.cfg.Admin.Email == "" {
		return nil
	}

	taken, err := accountRepo.EmailTaken(ctx, srv.cfg.Admin.Email, 0)
	if err != nil {
		return errors.Wrap(err, "failed to check admin email")
	}
	if taken {
		srv.logger.Warn("Bootstrap admin email already used by a non-admin account", slog.String("email", srv.cfg.Admin.Email))

		return nil
	}

	hash, err := srv.hasher.Hash(srv.cfg.Admin.Password)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	admin := &entity.Account{
		Name:         srv.cfg.Admin.Name,
		Email:        srv.cfg.Admin.Email,
		PasswordHash: &hash,
		Role:         entity.RoleAdmin,
	}
	if err := accountRepo.Create(ctx, admin); err != nil {
		return errors.Wrap(err, "failed to create bootstrap admin")
	}
	report.AdminCreated = true

	return nil
}

func (srv *bootstrapService) seedCatalog(ctx context.Context, catalogRepo repository.CatalogRepository, report *usecase.SeedReport) error {
	count, err := catalogRepo.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to count catalog items")
	}
	if count > 0 {
		return nil
	}

	for _, seed := range defaultCatalog {
		item := seed
		item.InStock = true
		item.Active = true

		if err := catalogRepo.Create(ctx, &item); err != nil {
			return errors.Wrapf(err, "failed to seed catalog item %q", seed.Name)
		}
		report.CatalogItems++
	}

	return nil
}
