// Package enrollment содержит доменную модель записи студентов на курсы.
//
// Пакет определяет:
//
//   - Сущности (Entities): Student, Course, Enrollment
//   - Реестр (Registry): общий для процесса журнал всех записей
//   - Value Objects: StudentID, CourseID, EnrollmentID, Grade
//   - Интерфейсы портов: StudentDirectory, CourseDirectory, Archive, DailyCountCache
//
// # Основные сущности
//
// Student записывается на курс и получает оценки по своим записям:
//
//	alice := NewStudent("Alice")
//	math := NewCourse("Math")
//
//	e, err := alice.Enroll(math)
//	if err != nil {
//	    return err
//	}
//	if err := alice.AssignGrade(e.ID(), 90); err != nil {
//	    return err
//	}
//	avg := alice.AverageGrade() // 90.0
//
// # Реестр записей
//
// Каждая Enrollment регистрируется в трёх местах: у студента, у курса
// и в Registry. По умолчанию студенты используют DefaultRegistry, который
// создаётся при инициализации пакета и живёт всё время работы процесса.
// Для изоляции (например, в тестах) реестр передаётся явно:
//
//	reg := NewRegistry(WithLocation(time.UTC))
//	bob := NewStudent("Bob", WithRegistry(reg))
//	perDay := reg.EnrollmentsPerDay()
//
// Реестр только дополняется; удаления записей нет.
package enrollment
