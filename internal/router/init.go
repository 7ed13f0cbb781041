package router

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/flowboard/flowboard-api/internal/application"
	"github.com/flowboard/flowboard-api/internal/container"
	"github.com/flowboard/flowboard-api/internal/infrastructure/mongodb"
	handlers "github.com/flowboard/flowboard-api/internal/interface/http"
	"github.com/flowboard/flowboard-api/internal/router/modules"
)

// InitModules builds every service from the container singletons and
// registers the feature modules with the router registry. Call once during
// application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetMongo()
	jwt := container.GetJWT()

	users := mongodb.NewUserRepository(db)
	projects := mongodb.NewProjectRepository(db)
	members := mongodb.NewProjectMemberRepository(db)
	boards := mongodb.NewBoardRepository(db)
	columns := mongodb.NewColumnRepository(db)
	cards := mongodb.NewCardRepository(db)

	authz := application.NewAuthorizer(projects, members, boards, columns, cards)

	directory := &application.UserDirectory{
		ES:     container.GetES(),
		Index:  cfg.ESUsersIndex,
		Logger: logger,
	}

	authSvc := &application.AuthService{
		Users:     users,
		JWT:       jwt,
		GCS:       container.GetGCS(),
		GCSBucket: cfg.GCSBucket,
		Directory: directory,
		Logger:    logger,
	}

	googleSvc := &application.GoogleService{
		Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		Users:     users,
		Auth:      authSvc,
		Redis:     container.GetRedis(),
		Directory: directory,
		Logger:    logger,
	}

	projectSvc := &application.ProjectService{
		Projects:          projects,
		Members:           members,
		Boards:            boards,
		Columns:           columns,
		Cards:             cards,
		Users:             users,
		Authz:             authz,
		Logger:            logger,
		SuperAdminSeesAll: cfg.SuperAdminSeesAll,
	}

	var enqueuer application.EmailEnqueuer
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		enqueuer = pub
	}
	memberSvc := &application.MemberService{
		Members:       members,
		Users:         users,
		Authz:         authz,
		Enqueuer:      enqueuer,
		Directory:     directory,
		Logger:        logger,
		InvitationURL: cfg.InvitationURL,
	}

	boardSvc := &application.BoardService{
		Boards:  boards,
		Columns: columns,
		Cards:   cards,
		Authz:   authz,
		Logger:  logger,
	}

	columnSvc := &application.ColumnService{
		Columns: columns,
		Cards:   cards,
		Boards:  boards,
		Members: members,
		Authz:   authz,
		Logger:  logger,
	}

	cardSvc := &application.CardService{
		Cards:   cards,
		Columns: columns,
		Boards:  boards,
		Members: members,
		Authz:   authz,
		Logger:  logger,
	}

	authHandler := handlers.NewAuthHandler(authSvc, googleSvc, logger)
	userHandler := handlers.NewUserHandler(authSvc, directory, logger)
	projectHandler := handlers.NewProjectHandler(projectSvc, logger)
	memberHandler := handlers.NewMemberHandler(memberSvc, logger)
	boardHandler := handlers.NewBoardHandler(boardSvc, logger)
	columnHandler := handlers.NewColumnHandler(columnSvc, logger)
	cardHandler := handlers.NewCardHandler(cardSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, jwt))
	r.Add(modules.NewUserModule(userHandler, jwt))
	r.Add(modules.NewProjectModule(projectHandler, memberHandler, boardHandler, jwt))
	r.Add(modules.NewBoardModule(boardHandler, columnHandler, jwt))
	r.Add(modules.NewColumnModule(columnHandler, cardHandler, jwt))
	r.Add(modules.NewCardModule(cardHandler, jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
