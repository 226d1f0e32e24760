package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/models"
	"github.com/rpupo63/personal-site-backend/services"
	"gorm.io/gorm"
)

// profileImageLimit caps the body of an avatar upload.
const profileImageLimit = 100 << 10

// userEagerFlags maps read query flags to the relations they load.
var userEagerFlags = []struct {
	flag     string
	relation string
}{
	{"incl_wrk_exp", models.UserExperiences + ".Industries"},
	{"incl_edu_exp", models.UserEducation},
	{"incl_sns", models.UserSocialNetworking},
	{"incl_projs", models.UserProjects},
	{"incl_skill", models.UserSkill},
	{"incl_blog", models.UserBlogs},
}

// ownedTables lists what a user owns, children before parents, so a user can
// be removed on stores that do not enforce cascades.
var ownedTables = []any{
	&models.Token{},
	&models.Education{},
	&models.Experience{},
	&models.Project{},
	&models.Skill{},
	&models.SocialNetworking{},
	&models.Blog{},
}

type userHandler struct {
	*Resource[models.User, models.UserDTO]
	db     database.Database
	auth   *services.AuthService
	media  *services.MediaService
	blogs  *blogHandler
	social *Resource[models.SocialNetworking, models.SocialNetworkingDTO]
}

func newUserHandler(db database.Database, auth *services.AuthService, media *services.MediaService, bucket services.Bucket, blogs *blogHandler, social *Resource[models.SocialNetworking, models.SocialNetworkingDTO]) *userHandler {
	h := &userHandler{db: db, auth: auth, media: media, blogs: blogs, social: social}
	h.Resource = newResource(resourceConfig[models.User, models.UserDTO]{
		name:         "user",
		repo:         db.UserRepo(),
		owned:        true,
		ownerColumn:  "id",
		fromDTO:      models.UserFromDTO,
		toDTO:        (*models.User).ToDTO,
		merge:        (*models.User).Merge,
		eager:        userEager,
		beforeSave:   rehashPassword,
		beforeDelete: h.removeOwned,
		afterDelete:  h.removeArticles,
		decorate: func(dto *models.UserDTO) {
			dto.RewriteURLs(bucket.URL)
		},
	})
	return h
}

func (h *userHandler) routes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Post("/", h.register())
	r.Get("/", h.readAll())
	r.Get("/{id}", h.read())
	r.Get("/{id}/blog", h.readBlog())
	r.Get("/{id}/resume", h.readResume())

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Put("/{id}", h.update())
		r.Delete("/{id}", h.delete())
		r.Patch("/{id}/profile_image", h.patchProfileImage())
		r.Post("/{id}/social_networking", h.createSocialNetworking())
	})
}

func userEager(r *http.Request) []string {
	if r == nil {
		return nil
	}
	query := r.URL.Query()
	var relations []string
	for _, f := range userEagerFlags {
		if !query.Has(f.flag) {
			continue
		}
		value := query.Get(f.flag)
		if enabled, err := strconv.ParseBool(value); value == "" || (err == nil && enabled) {
			relations = append(relations, f.relation)
		}
	}
	return relations
}

// rehashPassword replaces the stored hash when an update carries a password.
func rehashPassword(_ context.Context, user *models.User, dto models.UserDTO) (func() error, error) {
	if dto.Password == "" {
		return nil, nil
	}
	if err := services.ValidatePassword(dto.Password); err != nil {
		return nil, err
	}
	hash, err := services.HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	return nil, nil
}

// register creates an account and signs its first token in one transaction.
func (h *userHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		dto, err := h.decodeDTO(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := services.ValidatePassword(dto.Password); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		hash, err := services.HashPassword(dto.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user := models.UserFromDTO(dto)
		user.PasswordHash = hash

		var token *models.Token
		err = h.cfg.repo.Transaction(ctx, func(tx *gorm.DB) error {
			if err := h.cfg.repo.WithTx(tx).Create(ctx, user); err != nil {
				return err
			}
			token, err = h.auth.WithTx(tx).Issue(ctx, user.ID)
			return err
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "user", err))
			return
		}

		h.logger.Info().Str("userID", user.ID.String()).Msg("user registered")
		h.writeAuthorized(w, r, user, token)
	}
}

func (h *userHandler) writeAuthorized(w http.ResponseWriter, r *http.Request, user *models.User, token *models.Token) {
	dto, err := h.present(r.Context(), user, true)
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}
	h.responder.WriteJSON(w, AuthorizedResponse{
		User:        dto,
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
	})
}

// readBlog lists the blogs of the user named by id or username.
func (h *userHandler) readBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, err := h.cfg.repo.Identified(ctx, chi.URLParam(r, "id"), database.Unscoped)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		list, err := h.db.BlogRepo().ReadAll(ctx, database.OwnedBy(user.ID),
			database.Preload("Categories"),
			database.Fields(models.BlogListColumns...),
		)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		dtos := make([]models.BlogDTO, 0, len(list))
		for i := range list {
			dto, err := h.blogs.present(ctx, &list[i], false)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			dtos = append(dtos, dto)
		}
		h.responder.WriteJSON(w, dtos)
	}
}

// readResume returns the user with every resume relation loaded.
func (h *userHandler) readResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.cfg.repo.Identified(r.Context(), chi.URLParam(r, "id"), database.Unscoped,
			database.Preload(models.ResumeRelations...))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.writeModel(w, r, user)
	}
}

// patchProfileImage stores the uploaded image and points avatar_url at it.
// createSocialNetworking links a service to the user named by {id}, which must be the caller.
func (h *userHandler) createSocialNetworking() http.HandlerFunc {
	create := h.social.create()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := h.writeScope(ctx)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if _, err := h.cfg.repo.Identified(ctx, chi.URLParam(r, "id"), scope); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		create(w, r)
	}
}

func (h *userHandler) patchProfileImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := h.writeScope(ctx)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		user, err := h.cfg.repo.Identified(ctx, chi.URLParam(r, "id"), scope)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		uploads, err := readUploads(w, r, "image", profileImageLimit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		url, err := h.media.Save(ctx, services.MediaImage, uploads[0])
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user.AvatarURL = &url
		if err := h.cfg.repo.Update(ctx, user); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.writeModel(w, r, user)
	}
}

// removeOwned deletes every record of the user inside the delete transaction.
// Blogs are loaded first so their article files can be removed after commit.
func (h *userHandler) removeOwned(tx *gorm.DB, user *models.User) error {
	if err := tx.Select("id", "content").Where("user_id = ?", user.ID).Find(&user.Blogs).Error; err != nil {
		return err
	}

	blogs := tx.Model(&models.Blog{}).Select("id").Where("user_id = ?", user.ID)
	if err := tx.Where("blog_id IN (?)", blogs).Delete(&models.BlogCategoryLink{}).Error; err != nil {
		return err
	}
	experiences := tx.Model(&models.Experience{}).Select("id").Where("user_id = ?", user.ID)
	if err := tx.Where("experience_id IN (?)", experiences).Delete(&models.ExperienceIndustryLink{}).Error; err != nil {
		return err
	}

	for _, table := range ownedTables {
		if err := tx.Where("user_id = ?", user.ID).Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func (h *userHandler) removeArticles(user *models.User) {
	for i := range user.Blogs {
		h.blogs.removeArticle(&user.Blogs[i])
	}
}
