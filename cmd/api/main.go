package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"zerowaste/internal/config"
	"zerowaste/internal/crypto"
	"zerowaste/internal/domain/model"
	"zerowaste/internal/handler"
	"zerowaste/internal/infra/db"
	infraRepo "zerowaste/internal/infra/repository"
	"zerowaste/internal/jobs"
	"zerowaste/internal/repository"
	"zerowaste/internal/server"
	"zerowaste/internal/token"
	"zerowaste/internal/usecase"
	"zerowaste/internal/validator"
)

func main() {
	// .envはローカル開発用。無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Admin{},
		&model.RefreshSession{},
		&model.RevocationEntry{},
		&model.Profile{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// redisは任意。無ければblacklist参照はDB直、rate limitは素通し
	rdb := db.NewRedisClient(cfg)

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	adminRepo := infraRepo.NewAdminGormRepository(gormDB)
	sessionRepo := infraRepo.NewRefreshSessionGormRepository(gormDB)
	profileRepo := infraRepo.NewProfileGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	// blacklistはDBを正・redisを高速路とする合成
	revocationRepo := infraRepo.NewRevocationGormRepository(gormDB)
	if rdb != nil {
		revocationRepo = infraRepo.NewRevocationStore(revocationRepo, infraRepo.NewRevocationRedisRepository(rdb))
	}

	//usecaseに渡す部品
	hasher := crypto.NewPasswordHasher(cfg.Argon2Memory, cfg.Argon2Iterations, cfg.Argon2Parallelism)
	issuer := token.NewIssuerFromConfig(cfg)
	authValidator := validator.NewAuthValidator()

	authUC := usecase.NewAuthUsecase(userRepo, sessionRepo, revocationRepo, auditRepo, hasher, issuer, authValidator)
	adminAuthUC := usecase.NewAdminAuthUsecase(adminRepo, userRepo, sessionRepo, revocationRepo, auditRepo, hasher, issuer, authValidator)
	profileUC := usecase.NewProfileUsecase(profileRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := seedAdmin(ctx, cfg, adminRepo, hasher); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	jobs.StartPurgeJob(ctx, cfg, revocationRepo, sessionRepo)

	e := server.New(server.Deps{
		Config:      cfg,
		Issuer:      issuer,
		Revocations: revocationRepo,
		Redis:       rdb,

		Auth:      handler.NewAuthHandler(authUC),
		AdminAuth: handler.NewAdminAuthHandler(adminAuthUC),
		Profile:   handler.NewProfileHandler(profileUC),
	})

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.GoEnv)
	if err := server.Start(e, ":"+cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// ADMIN_EMAIL/ADMIN_PASSWORDがあれば起動時に管理者を1人作る。既存ならskip。
func seedAdmin(ctx context.Context, cfg config.Config, admins repository.AdminRepository, hasher *crypto.PasswordHasher) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	// ログイン時と同じ正規化を通す。大文字混じりのseedはログイン不能になる
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	seedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := admins.ExistsByEmail(seedCtx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &model.Admin{
		UUID:         uuid.NewString(),
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		Status:       model.StatusActive,
	}
	if err := admins.Create(seedCtx, admin); err != nil {
		return err
	}

	log.Printf("seeded admin account %s", email)
	return nil
}
