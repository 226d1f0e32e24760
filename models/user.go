package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is an account and the owner of every resume record.
type User struct {
	Base
	Username     string                      `db:"username" gorm:"type:text;uniqueIndex;not null"`
	PasswordHash string                      `db:"pwd" gorm:"column:pwd;type:text;not null"`
	FirstName    string                      `db:"first_name" gorm:"type:text;not null"`
	LastName     string                      `db:"last_name" gorm:"type:text;not null"`
	AvatarURL    *string                     `db:"avatar_url" gorm:"type:text"`
	Phone        *string                     `db:"phone" gorm:"type:text"`
	EmailAddress *string                     `db:"email_address" gorm:"type:text"`
	AboutMe      *string                     `db:"about_me" gorm:"type:text"`
	Location     *string                     `db:"location" gorm:"type:text"`
	Interests    datatypes.JSONSlice[string] `db:"interests"`

	Tokens           []Token            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Education        []Education        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Experiences      []Experience       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Projects         []Project          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Skill            *Skill             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	SocialNetworking []SocialNetworking `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Blogs            []Blog             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// UserDTO is the wire form of a user. Password is accepted on input and never written out.
type UserDTO struct {
	ID               uuid.UUID             `json:"id"`
	Username         string                `json:"username" validate:"required"`
	Password         string                `json:"password,omitempty" validate:"omitempty,min=6,max=18"`
	FirstName        string                `json:"first_name" validate:"required"`
	LastName         string                `json:"last_name" validate:"required"`
	AvatarURL        *string               `json:"avatar_url,omitempty"`
	Phone            *string               `json:"phone,omitempty"`
	EmailAddress     *string               `json:"email_address,omitempty" validate:"omitempty,email"`
	AboutMe          *string               `json:"about_me,omitempty"`
	Location         *string               `json:"location,omitempty"`
	Interests        []string              `json:"interests"`
	Education        []EducationDTO        `json:"education,omitempty"`
	Experiences      []ExperienceDTO       `json:"experiences,omitempty"`
	Projects         []ProjectDTO          `json:"projects,omitempty"`
	Skill            *SkillDTO             `json:"skill,omitempty"`
	SocialNetworking []SocialNetworkingDTO `json:"social_networking,omitempty"`
	Blogs            []BlogDTO             `json:"blog,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// UserFromDTO builds a new user. The password hash is set by the caller.
func UserFromDTO(dto UserDTO) *User {
	user := &User{}
	user.Merge(dto)
	return user
}

// Merge overwrites every profile field with the DTO's values.
func (u *User) Merge(dto UserDTO) {
	u.Username = dto.Username
	u.FirstName = dto.FirstName
	u.LastName = dto.LastName
	u.AvatarURL = dto.AvatarURL
	u.Phone = dto.Phone
	u.EmailAddress = dto.EmailAddress
	u.AboutMe = dto.AboutMe
	u.Location = dto.Location
	u.Interests = jsonStrings(dto.Interests)
}

func (u *User) ToDTO() UserDTO {
	dto := UserDTO{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		AvatarURL:    u.AvatarURL,
		Phone:        u.Phone,
		EmailAddress: u.EmailAddress,
		AboutMe:      u.AboutMe,
		Location:     u.Location,
		Interests:    cloneStrings(u.Interests),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	for i := range u.Education {
		dto.Education = append(dto.Education, u.Education[i].ToDTO())
	}
	for i := range u.Experiences {
		dto.Experiences = append(dto.Experiences, u.Experiences[i].ToDTO())
	}
	for i := range u.Projects {
		dto.Projects = append(dto.Projects, u.Projects[i].ToDTO())
	}
	if u.Skill != nil {
		skill := u.Skill.ToDTO()
		dto.Skill = &skill
	}
	for i := range u.SocialNetworking {
		dto.SocialNetworking = append(dto.SocialNetworking, u.SocialNetworking[i].ToDTO())
	}
	for i := range u.Blogs {
		dto.Blogs = append(dto.Blogs, u.Blogs[i].ToDTO())
	}
	return dto
}

// RewriteURLs applies rewrite to every media URL, including nested records.
func (d *UserDTO) RewriteURLs(rewrite func(string) string) {
	d.AvatarURL = rewriteOptional(d.AvatarURL, rewrite)
	for i := range d.Projects {
		d.Projects[i].RewriteURLs(rewrite)
	}
	for i := range d.Blogs {
		d.Blogs[i].RewriteURLs(rewrite)
	}
}

func rewriteOptional(value *string, rewrite func(string) string) *string {
	if value == nil {
		return nil
	}
	rewritten := rewrite(*value)
	return &rewritten
}

// Relations that can be requested when reading users.
const (
	UserExperiences      = "Experiences"
	UserEducation        = "Education"
	UserSocialNetworking = "SocialNetworking.Service"
	UserProjects         = "Projects"
	UserSkill            = "Skill"
	UserBlogs            = "Blogs.Categories"
)

// ResumeRelations lists everything a resume page renders.
var ResumeRelations = []string{
	UserExperiences + ".Industries",
	UserEducation,
	UserSocialNetworking,
	UserProjects,
	UserSkill,
	UserBlogs,
}
