package controller

import (
	"apec_lms_backend/internal/model"
	"apec_lms_backend/internal/service"
	"apec_lms_backend/internal/util"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	Courses     *service.CourseService
	Enrollments *service.EnrollmentService
	Storage     *service.StorageService
}

func NewCourseController(courses *service.CourseService, enrollments *service.EnrollmentService, storage *service.StorageService) *CourseController {
	return &CourseController{Courses: courses, Enrollments: enrollments, Storage: storage}
}

// @Summary Create a course with optional quiz questions
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateCourseRequest true "course definition"
// @Success 201 {object} util.Response
// @Router /api/educator/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.Courses.CreateCourse(user.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrCourseValidation) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, "create course", err)
		}
		return
	}

	util.Created(ctx, course)
}

// @Summary List courses (educators see their own, students the catalog)
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.Courses.ListCourses(user.UserID, user.Role)
	if err != nil {
		util.LogInternalError(ctx, "list courses", err)
		return
	}

	util.Success(ctx, gin.H{"courses": courses})
}

// @Summary Fetch one course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.Courses.GetCourse(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, "get course", err)
		return
	}

	util.Success(ctx, course)
}

// @Summary Delete a course the caller owns
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response
// @Router /api/educator/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Courses.DeleteCourse(user.UserID, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, "delete course", err)
		return
	}

	util.Success(ctx, gin.H{"deleted": ctx.Param("id")})
}

// @Summary List the caller's enrolled courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/student/courses [get]
func (c *CourseController) StudentCourses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.Enrollments.ListForUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, "list student courses", err)
		return
	}

	type enrolledCourse struct {
		Course     *model.Course          `json:"course"`
		Status     model.EnrollmentStatus `json:"status"`
		QuizScore  *int                   `json:"quizScore"`
		EnrolledAt time.Time              `json:"enrolledAt"`
	}

	out := make([]enrolledCourse, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		out = append(out, enrolledCourse{
			Course:     e.Course,
			Status:     e.Status,
			QuizScore:  e.QuizScore,
			EnrolledAt: e.EnrolledAt,
		})
	}

	util.Success(ctx, gin.H{"courses": out})
}

// @Summary Upload a course video
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Param file formData file true "video file"
// @Success 200 {object} util.Response
// @Router /api/educator/courses/{id}/video [post]
func (c *CourseController) UploadVideo(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, "open upload", err)
		return
	}
	defer src.Close()

	courseID := ctx.Param("id")
	filename := fmt.Sprintf("courses/%s/%s%s", courseID, model.GenerateUUID(), filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")

	url, err := c.Storage.Upload(ctx.Request.Context(), filename, src, file.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, "upload video", err)
		return
	}

	if err := c.Courses.SetVideoLink(user.UserID, courseID, url); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, "set video link", err)
		return
	}

	util.Success(ctx, gin.H{"videoLink": url})
}
